package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// --- моки ---

type stubLogger struct{}

func (stubLogger) Info(format string, v ...interface{})  {}
func (stubLogger) Warn(format string, v ...interface{})  {}
func (stubLogger) Error(format string, v ...interface{}) {}

type fakeApptRepo struct {
	existing []*domain.Appointment
}

func (f *fakeApptRepo) GetActiveByStaffAndDate(ctx context.Context, staffID int64, date time.Time, excludeID *int64) ([]*domain.Appointment, error) {
	return f.existing, nil
}

type fakeLocationRepo struct {
	location *domain.Location
}

func (f *fakeLocationRepo) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
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
}

func (f *fakeStaffRepo) GetByID(ctx context.Context, id int64) (*domain.StaffMember, error) {
	return f.staff, nil
}

type fakeCache struct {
	stored   []domain.AvailableSlot
	hit      bool
	getErr   error
	setErr   error
	getCalls int
	setCalls int
}

func (f *fakeCache) Get(ctx context.Context, locationID, serviceID, staffID int64, date string) ([]domain.AvailableSlot, bool, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	return f.stored, f.hit, nil
}

func (f *fakeCache) Set(ctx context.Context, locationID, serviceID, staffID int64, date string, slots []domain.AvailableSlot) error {
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	f.stored = slots
	return nil
}

type fakeClock struct {
	now time.Time
}

func (f fakeClock) Now() time.Time { return f.now }

// --- фикстуры ---

const (
	locationID = int64(10)
	serviceID  = int64(20)
	staffID    = int64(30)
)

// Вторник 2026-09-08, запрос делается 2026-09-01
var (
	testDate = time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	testNow  = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	useCase  *UseCase
	apptRepo *fakeApptRepo
	cache    *fakeCache
}

func newFixture(stepMinutes int) *fixture {
	f := &fixture{
		apptRepo: &fakeApptRepo{},
		cache:    &fakeCache{},
	}
	f.useCase = NewUseCase(
		f.apptRepo,
		&fakeLocationRepo{location: &domain.Location{
			ID: locationID, TenantID: 1,
			OperatingHours: domain.WeeklySchedule{
				time.Tuesday: {Enabled: true, Blocks: []domain.TimeBlock{{Start: "09:00", End: "18:00"}}},
			},
			IsActive: true,
		}},
		&fakeServiceRepo{service: &domain.Service{
			ID: serviceID, TenantID: 1, Name: "Стрижка",
			DurationMinutes: 60, LocationIDs: []int64{locationID}, IsActive: true,
		}},
		&fakeStaffRepo{staff: &domain.StaffMember{
			ID: staffID, TenantID: 1,
			SchedulesByLocation: map[int64]domain.WeeklySchedule{
				locationID: {
					time.Tuesday: {Enabled: true, Blocks: []domain.TimeBlock{{Start: "10:00", End: "14:00"}}},
				},
			},
			ServiceIDs: []int64{serviceID},
			IsActive:   true,
		}},
		f.cache,
		stepMinutes,
		stubLogger{},
	)
	f.useCase.timeProvider = fakeClock{now: testNow}
	return f
}

func testRequest() *Request {
	return &Request{
		LocationID: locationID,
		ServiceID:  serviceID,
		StaffID:    staffID,
		Date:       testDate,
	}
}

func startTimes(slots []Slot) []types.TimeString {
	out := make([]types.TimeString, len(slots))
	for i, s := range slots {
		out[i] = s.StartTime
	}
	return out
}

// --- тесты ---

func TestExecute_CacheMiss(t *testing.T) {
	f := newFixture(60)

	resp, err := f.useCase.Execute(context.Background(), testRequest())
	require.NoError(t, err)

	// Смена сотрудника 10:00-14:00, услуга 60 минут, шаг 60
	assert.Equal(t,
		[]types.TimeString{"10:00", "11:00", "12:00", "13:00"},
		startTimes(resp.Slots),
	)
	assert.Equal(t, 60, resp.DurationMinutes)

	// Промах кэша: рассчитанные кандидаты сохранены
	assert.Equal(t, 1, f.cache.getCalls)
	assert.Equal(t, 1, f.cache.setCalls)
}

func TestExecute_CacheHit(t *testing.T) {
	f := newFixture(60)
	f.cache.hit = true
	f.cache.stored = []domain.AvailableSlot{
		{StartTime: "10:00", StaffID: staffID, DurationMinutes: 60},
	}

	resp, err := f.useCase.Execute(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, []types.TimeString{"10:00"}, startTimes(resp.Slots))
	// Попадание: пересчёта и записи в кэш нет
	assert.Equal(t, 0, f.cache.setCalls)
}

func TestExecute_CacheErrorFallsBackToDB(t *testing.T) {
	// Ошибка кэша не фатальна - слоты считаются заново
	f := newFixture(60)
	f.cache.getErr = errors.New("redis down")
	f.cache.setErr = errors.New("redis down")

	resp, err := f.useCase.Execute(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 4)
}

func TestExecute_BusyWindowsSubtractedAfterCache(t *testing.T) {
	// Занятость вычитается поверх кэша - отмена записи видна сразу,
	// даже пока кандидаты ещё закэшированы
	f := newFixture(60)
	f.cache.hit = true
	f.cache.stored = []domain.AvailableSlot{
		{StartTime: "10:00", StaffID: staffID, DurationMinutes: 60},
		{StartTime: "11:00", StaffID: staffID, DurationMinutes: 60},
		{StartTime: "12:00", StaffID: staffID, DurationMinutes: 60},
	}
	f.apptRepo.existing = []*domain.Appointment{
		{ID: 1, StaffID: staffID, StartTime: "11:00", EndTime: "12:00", Status: domain.StatusConfirmed},
	}

	resp, err := f.useCase.Execute(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, []types.TimeString{"10:00", "12:00"}, startTimes(resp.Slots))
}

func TestExecute_StepSmallerThanDuration(t *testing.T) {
	f := newFixture(30)

	resp, err := f.useCase.Execute(context.Background(), testRequest())
	require.NoError(t, err)

	// Шаг 30 минут при длительности 60: последний старт 13:00
	assert.Equal(t,
		[]types.TimeString{"10:00", "10:30", "11:00", "11:30", "12:00", "12:30", "13:00"},
		startTimes(resp.Slots),
	)
}

func TestExecute_PastDateReturnsEmpty(t *testing.T) {
	// Дата в прошлом - пустой список, не ошибка
	f := newFixture(60)
	req := testRequest()
	req.Date = time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)

	resp, err := f.useCase.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.Equal(t, 0, f.cache.getCalls)
}

func TestExecute_TodayFiltersPassedSlots(t *testing.T) {
	f := newFixture(60)
	f.useCase.timeProvider = fakeClock{now: time.Date(2026, 9, 8, 11, 30, 0, 0, time.UTC)}

	resp, err := f.useCase.Execute(context.Background(), testRequest())
	require.NoError(t, err)

	// К 11:30 слоты 10:00 и 11:00 уже в прошлом
	assert.Equal(t, []types.TimeString{"12:00", "13:00"}, startTimes(resp.Slots))
}

func TestExecute_DayOffReturnsEmpty(t *testing.T) {
	// Среда не рабочий день
	f := newFixture(60)
	req := testRequest()
	req.Date = time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC)

	resp, err := f.useCase.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	f := newFixture(60)
	f.useCase.serviceRepo = &fakeServiceRepo{err: serviceRepo.ErrServiceNotFound}

	_, err := f.useCase.Execute(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_ServiceNotAtLocation(t *testing.T) {
	f := newFixture(60)
	f.useCase.serviceRepo = &fakeServiceRepo{service: &domain.Service{
		ID: serviceID, TenantID: 1, DurationMinutes: 60, LocationIDs: []int64{99}, IsActive: true,
	}}

	_, err := f.useCase.Execute(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrServiceNotAtLocation)
}

func TestExecute_StaffServiceMismatch(t *testing.T) {
	f := newFixture(60)
	f.useCase.staffRepo = &fakeStaffRepo{staff: &domain.StaffMember{
		ID: staffID, TenantID: 1, ServiceIDs: []int64{99}, IsActive: true,
	}}

	_, err := f.useCase.Execute(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrStaffServiceMismatch)
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture(60)

	cases := map[string]func(*Request){
		"zero location": func(r *Request) { r.LocationID = 0 },
		"zero service":  func(r *Request) { r.ServiceID = 0 },
		"zero staff":    func(r *Request) { r.StaffID = 0 },
		"zero date":     func(r *Request) { r.Date = time.Time{} },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := testRequest()
			mutate(req)
			_, err := f.useCase.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
