package models

import (
	"errors"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/selection"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var (
	// ErrInvalidWeekday возвращается при неизвестном названии дня недели
	ErrInvalidWeekday = errors.New("invalid weekday name")
)

// weekdayNames сопоставление названий дней из API и time.Weekday
var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Schedule модели
// В API дни недели именуются строками ("monday"), внутри - time.Weekday.

// TimeBlockDTO рабочий интервал в рамках одного дня
type TimeBlockDTO struct {
	Start string `json:"start"` // "09:00"
	End   string `json:"end"`   // "18:00"
}

// DayScheduleDTO расписание одного дня недели
type DayScheduleDTO struct {
	Enabled bool           `json:"enabled"`
	Blocks  []TimeBlockDTO `json:"blocks"`
}

// ScheduleDTO недельное расписание с днями-строками
type ScheduleDTO map[string]DayScheduleDTO

// FromDomainSchedule конвертирует domain расписание в DTO
func FromDomainSchedule(s domain.WeeklySchedule) ScheduleDTO {
	out := make(ScheduleDTO, 7)
	for name, day := range weekdayNames {
		ds, ok := s[day]
		if !ok {
			out[name] = DayScheduleDTO{Enabled: false, Blocks: []TimeBlockDTO{}}
			continue
		}
		blocks := make([]TimeBlockDTO, 0, len(ds.Blocks))
		for _, b := range ds.Blocks {
			blocks = append(blocks, TimeBlockDTO{Start: b.Start.String(), End: b.End.String()})
		}
		out[name] = DayScheduleDTO{Enabled: ds.Enabled, Blocks: blocks}
	}
	return out
}

// ToDomainSchedule конвертирует DTO в domain расписание
func (d ScheduleDTO) ToDomainSchedule() (domain.WeeklySchedule, error) {
	out := make(domain.WeeklySchedule, len(d))
	for name, ds := range d {
		day, ok := weekdayNames[strings.ToLower(name)]
		if !ok {
			return nil, ErrInvalidWeekday
		}
		blocks := make([]domain.TimeBlock, 0, len(ds.Blocks))
		for _, b := range ds.Blocks {
			blocks = append(blocks, domain.TimeBlock{
				Start: types.TimeString(b.Start),
				End:   types.TimeString(b.End),
			})
		}
		out[day] = domain.DaySchedule{Enabled: ds.Enabled, Blocks: blocks}
	}
	return out, nil
}

// ToWeekday конвертирует название дня из API в time.Weekday
func ToWeekday(name string) (time.Weekday, error) {
	day, ok := weekdayNames[strings.ToLower(name)]
	if !ok {
		return 0, ErrInvalidWeekday
	}
	return day, nil
}

// Request модели

// GetBookingOptionsRequest запрос на каскадный выбор локации/услуги/мастера
type GetBookingOptionsRequest struct {
	TenantID   int64  `json:"-"`
	LocationID *int64 `json:"locationId,omitempty"` // Выбранная локация (опционально)
	ServiceID  *int64 `json:"serviceId,omitempty"`  // Выбранная услуга (опционально)
}

// UpdateOperatingHoursRequest запрос на обновление часов работы локации
type UpdateOperatingHoursRequest struct {
	TenantID       int64       `json:"-"`
	OperatingHours ScheduleDTO `json:"operatingHours"`
}

// Response модели

// LocationOption локация в каскадном выборе
type LocationOption struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Phone    *string `json:"phone,omitempty"`
	Timezone string  `json:"timezone"`
}

// ServiceOption услуга в каскадном выборе
type ServiceOption struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
}

// StaffOption сотрудник в каскадном выборе
type StaffOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookingOptionsResponse ответ каскадного выбора.
// Каждый следующий список заполняется только после выбора предыдущего шага.
type BookingOptionsResponse struct {
	Locations []LocationOption `json:"locations"`
	Services  []ServiceOption  `json:"services,omitempty"`
	Staff     []StaffOption    `json:"staff,omitempty"`
}

// LocationResponse ответ с данными локации
type LocationResponse struct {
	ID             int64       `json:"id"`
	TenantID       int64       `json:"tenantId"`
	Name           string      `json:"name"`
	Address        string      `json:"address"`
	Phone          *string     `json:"phone,omitempty"`
	Email          *string     `json:"email,omitempty"`
	Timezone       string      `json:"timezone"`
	OperatingHours ScheduleDTO `json:"operatingHours"`
	IsActive       bool        `json:"isActive"`
}

// StaffScheduleResponse ответ с расписанием сотрудника на локации
type StaffScheduleResponse struct {
	StaffID    int64       `json:"staffId"`
	LocationID int64       `json:"locationId"`
	Schedule   ScheduleDTO `json:"schedule"`
}

// Методы конвертации

// FromDomainLocation конвертирует domain модель в DTO
func FromDomainLocation(l *domain.Location) *LocationResponse {
	if l == nil {
		return nil
	}
	return &LocationResponse{
		ID:             l.ID,
		TenantID:       l.TenantID,
		Name:           l.Name,
		Address:        l.Address,
		Phone:          l.Phone,
		Email:          l.Email,
		Timezone:       l.Timezone,
		OperatingHours: FromDomainSchedule(l.OperatingHours),
		IsActive:       l.IsActive,
	}
}

// FromSelectionOptions собирает каскадный ответ из загруженного каталога
func FromSelectionOptions(opts *selection.Options, locationID, serviceID *int64) *BookingOptionsResponse {
	resp := &BookingOptionsResponse{
		Locations: make([]LocationOption, 0),
	}
	for _, l := range opts.ActiveLocations() {
		resp.Locations = append(resp.Locations, LocationOption{
			ID:       l.ID,
			Name:     l.Name,
			Address:  l.Address,
			Phone:    l.Phone,
			Timezone: l.Timezone,
		})
	}

	if locationID == nil {
		return resp
	}

	resp.Services = make([]ServiceOption, 0)
	for _, s := range opts.ServicesAt(*locationID) {
		resp.Services = append(resp.Services, ServiceOption{
			ID:              s.ID,
			Name:            s.Name,
			Description:     s.Description,
			DurationMinutes: s.DurationMinutes,
			Price:           s.Price,
		})
	}

	if serviceID == nil {
		return resp
	}

	resp.Staff = make([]StaffOption, 0)
	for _, m := range opts.StaffFor(*locationID, *serviceID) {
		resp.Staff = append(resp.Staff, StaffOption{
			ID:   m.ID,
			Name: m.Name,
		})
	}

	return resp
}
