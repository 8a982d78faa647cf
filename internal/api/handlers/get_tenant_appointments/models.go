package get_tenant_appointments

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(
	tenantID int64,
	locationIDStr string,
	staffIDStr string,
	statusStr string,
	startDateStr string,
	endDateStr string,
	includeInactiveStr string,
) (*models.GetTenantAppointmentsRequest, error) {
	req := &models.GetTenantAppointmentsRequest{
		TenantID:        tenantID,
		IncludeInactive: false, // По умолчанию только активные
	}

	// Парсим locationId если указан
	if locationIDStr != "" {
		locationID, err := strconv.ParseInt(locationIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.LocationID = &locationID
	}

	// Парсим staffId если указан
	if staffIDStr != "" {
		staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.StaffID = &staffID
	}

	// Парсим status если указан
	if statusStr != "" {
		req.Status = &statusStr
	}

	// Парсим период; одиночная дата задаётся одинаковыми start и end
	if startDateStr != "" {
		startDate, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &startDate
	}
	if endDateStr != "" {
		endDate, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, err
		}
		req.EndDate = &endDate
	}
	if req.StartDate != nil && req.EndDate == nil {
		req.EndDate = req.StartDate
	}
	if req.EndDate != nil && req.StartDate == nil {
		req.StartDate = req.EndDate
	}

	// Парсим includeInactive если указан
	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
