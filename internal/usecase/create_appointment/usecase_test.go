package create_appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	locationRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/location"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	staffRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// --- моки ---

type stubLogger struct{}

func (stubLogger) Info(format string, v ...interface{})  {}
func (stubLogger) Warn(format string, v ...interface{})  {}
func (stubLogger) Error(format string, v ...interface{}) {}

type fakeApptRepo struct {
	existing  []*domain.Appointment
	createErr error
	created   *domain.Appointment
}

func (f *fakeApptRepo) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	appt.ID = 100
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt
	f.created = appt
	return appt, nil
}

func (f *fakeApptRepo) GetActiveByStaffAndDate(ctx context.Context, staffID int64, date time.Time, excludeID *int64) ([]*domain.Appointment, error) {
	return f.existing, nil
}

type fakeLocationRepo struct {
	location *domain.Location
	err      error
}

func (f *fakeLocationRepo) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.location, nil
}

type fakeServiceRepo struct {
	service *domain.Service
	err     error
}

func (f *fakeServiceRepo) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.service, nil
}

type fakeStaffRepo struct {
	staff *domain.StaffMember
	err   error
}

func (f *fakeStaffRepo) GetByID(ctx context.Context, id int64) (*domain.StaffMember, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.staff, nil
}

// fakeTxManager выполняет функцию без транзакции
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakePublisher struct {
	events []domain.AppointmentEvent
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, event domain.AppointmentEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

type fakeCache struct {
	invalidated []string
}

func (f *fakeCache) InvalidateStaffDate(ctx context.Context, staffID int64, date string) error {
	f.invalidated = append(f.invalidated, date)
	return nil
}

type fakeClock struct {
	now time.Time
}

func (f fakeClock) Now() time.Time { return f.now }

// --- фикстуры ---

const (
	tenantID   = int64(1)
	locationID = int64(10)
	serviceID  = int64(20)
	staffID    = int64(30)
)

// Вторник 2026-09-08, запрос делается 2026-09-01
var (
	testDate = time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	testNow  = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
)

func testLocation() *domain.Location {
	return &domain.Location{
		ID:       locationID,
		TenantID: tenantID,
		Name:     "Центральный филиал",
		Timezone: "Europe/Moscow",
		OperatingHours: domain.WeeklySchedule{
			time.Tuesday: {Enabled: true, Blocks: []domain.TimeBlock{{Start: "09:00", End: "18:00"}}},
		},
		IsActive: true,
	}
}

func testService() *domain.Service {
	return &domain.Service{
		ID:              serviceID,
		TenantID:        tenantID,
		Name:            "Стрижка",
		DurationMinutes: 60,
		Price:           1500,
		LocationIDs:     []int64{locationID},
		IsActive:        true,
	}
}

func testStaff() *domain.StaffMember {
	return &domain.StaffMember{
		ID:       staffID,
		TenantID: tenantID,
		Name:     "Анна",
		SchedulesByLocation: map[int64]domain.WeeklySchedule{
			locationID: {
				time.Tuesday: {Enabled: true, Blocks: []domain.TimeBlock{{Start: "10:00", End: "16:00"}}},
			},
		},
		ServiceIDs: []int64{serviceID},
		IsActive:   true,
	}
}

func testRequest() *Request {
	return &Request{
		TenantID:      tenantID,
		LocationID:    locationID,
		ServiceID:     serviceID,
		StaffID:       staffID,
		CustomerName:  "Иван Петров",
		CustomerPhone: "+79991234567",
		Date:          testDate,
		StartTime:     "11:00",
	}
}

type fixture struct {
	uc        *UseCase
	apptRepo  *fakeApptRepo
	txManager *fakeTxManager
	publisher *fakePublisher
	cache     *fakeCache
}

func newFixture() *fixture {
	f := &fixture{
		apptRepo:  &fakeApptRepo{},
		txManager: &fakeTxManager{},
		publisher: &fakePublisher{},
		cache:     &fakeCache{},
	}
	f.uc = NewUseCase(
		f.apptRepo,
		&fakeLocationRepo{location: testLocation()},
		&fakeServiceRepo{service: testService()},
		&fakeStaffRepo{staff: testStaff()},
		f.txManager,
		f.publisher,
		f.cache,
		stubLogger{},
	)
	f.uc.timeProvider = fakeClock{now: testNow}
	return f
}

// --- тесты ---

func TestExecute_OK(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, types.TimeString("11:00"), resp.StartTime)
	assert.Equal(t, types.TimeString("12:00"), resp.EndTime)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	// Таймзона локации по умолчанию
	assert.Equal(t, "Europe/Moscow", resp.Timezone)
	// Денормализация услуги
	assert.Equal(t, "Стрижка", resp.ServiceName)
	assert.Equal(t, float64(1500), resp.ServicePrice)

	assert.Equal(t, 1, f.txManager.calls)
}

func TestExecute_PublishesCreatedEvent(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), testRequest())
	require.NoError(t, err)

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, domain.EventAppointmentCreated, event.Type)
	assert.Equal(t, tenantID, event.TenantID)
	assert.Equal(t, resp.ID, event.AppointmentID)
	assert.NotEmpty(t, event.ID)
}

func TestExecute_PublishErrorDoesNotFail(t *testing.T) {
	f := newFixture()
	f.publisher.err = errors.New("kafka down")

	_, err := f.uc.Execute(context.Background(), testRequest())
	assert.NoError(t, err)
}

func TestExecute_InvalidatesSlotCache(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), testRequest())
	require.NoError(t, err)

	require.Len(t, f.cache.invalidated, 1)
	assert.Equal(t, "2026-09-08", f.cache.invalidated[0])
}

func TestExecute_SlotTaken(t *testing.T) {
	f := newFixture()
	f.apptRepo.existing = []*domain.Appointment{
		{ID: 1, StaffID: staffID, StartTime: "11:30", EndTime: "12:30", Status: domain.StatusConfirmed},
	}

	_, err := f.uc.Execute(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Nil(t, f.apptRepo.created)
	assert.Empty(t, f.publisher.events)
}

func TestExecute_CancelledAppointmentDoesNotBlock(t *testing.T) {
	// Отменённая запись не занимает слот
	f := newFixture()
	f.apptRepo.existing = []*domain.Appointment{
		{ID: 1, StaffID: staffID, StartTime: "11:00", EndTime: "12:00", Status: domain.StatusCancelled},
	}

	_, err := f.uc.Execute(context.Background(), testRequest())
	assert.NoError(t, err)
}

func TestExecute_AdjacentAppointmentDoesNotBlock(t *testing.T) {
	// Касание границ пересечением не считается
	f := newFixture()
	f.apptRepo.existing = []*domain.Appointment{
		{ID: 1, StaffID: staffID, StartTime: "12:00", EndTime: "13:00", Status: domain.StatusConfirmed},
	}

	_, err := f.uc.Execute(context.Background(), testRequest())
	assert.NoError(t, err)
}

func TestExecute_PastDate(t *testing.T) {
	f := newFixture()
	req := testRequest()
	req.Date = time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, scheduling.ErrValidation)
}

func TestExecute_OutsideStaffSchedule(t *testing.T) {
	// 09:00 внутри часов локации, но до начала смены сотрудника
	f := newFixture()
	req := testRequest()
	req.StartTime = "09:00"

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, scheduling.ErrValidation)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	f := newFixture()
	f.uc.serviceRepo = &fakeServiceRepo{err: serviceRepo.ErrServiceNotFound}

	_, err := f.uc.Execute(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_LocationNotFound(t *testing.T) {
	f := newFixture()
	f.uc.locationRepo = &fakeLocationRepo{err: locationRepo.ErrLocationNotFound}

	_, err := f.uc.Execute(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestExecute_StaffNotFound(t *testing.T) {
	f := newFixture()
	f.uc.staffRepo = &fakeStaffRepo{err: staffRepo.ErrStaffNotFound}

	_, err := f.uc.Execute(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestExecute_ServiceOfAnotherTenant(t *testing.T) {
	// Чужая услуга неотличима от несуществующей
	f := newFixture()
	svc := testService()
	svc.TenantID = 999
	f.uc.serviceRepo = &fakeServiceRepo{service: svc}

	_, err := f.uc.Execute(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_ServiceNotAtLocation(t *testing.T) {
	f := newFixture()
	svc := testService()
	svc.LocationIDs = []int64{99}
	f.uc.serviceRepo = &fakeServiceRepo{service: svc}

	_, err := f.uc.Execute(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrServiceNotAtLocation)
}

func TestExecute_StaffServiceMismatch(t *testing.T) {
	f := newFixture()
	staff := testStaff()
	staff.ServiceIDs = []int64{99}
	f.uc.staffRepo = &fakeStaffRepo{staff: staff}

	_, err := f.uc.Execute(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrStaffServiceMismatch)
}

func TestExecute_CustomTimezone(t *testing.T) {
	f := newFixture()
	req := testRequest()
	tz := "Asia/Yekaterinburg"
	req.Timezone = &tz

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, tz, resp.Timezone)
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture()

	cases := map[string]func(*Request){
		"zero tenant":    func(r *Request) { r.TenantID = 0 },
		"zero location":  func(r *Request) { r.LocationID = 0 },
		"empty name":     func(r *Request) { r.CustomerName = "  " },
		"empty phone":    func(r *Request) { r.CustomerPhone = "" },
		"zero date":      func(r *Request) { r.Date = time.Time{} },
		"bad start time": func(r *Request) { r.StartTime = "25:00" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := testRequest()
			mutate(req)
			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_WindowCrossesMidnight(t *testing.T) {
	f := newFixture()
	req := testRequest()
	req.StartTime = "23:30"

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
