package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hooplab/courtside/internal/model"
	"github.com/hooplab/courtside/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Court{},
		&model.Photo{},
		&model.CourtPhoto{},
		&model.Video{},
		&model.CourtVideo{},
		&model.CourtFollowing{},
		&model.CourtReview{},
		&model.Booking{},
		&model.Activity{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

type testEnv struct {
	db            *gorm.DB
	courtRepo     repository.CourtRepository
	mediaRepo     repository.MediaRepository
	followingRepo repository.FollowingRepository
	reviewRepo    repository.ReviewRepository
	bookingRepo   repository.BookingRepository
	activityRepo  repository.ActivityRepository
	userRepo      repository.UserRepository
	txManager     repository.TxManager
	aggregates    AggregateService
	activities    ActivityService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	env := &testEnv{
		db:            db,
		courtRepo:     repository.NewCourtRepository(db),
		mediaRepo:     repository.NewMediaRepository(db),
		followingRepo: repository.NewFollowingRepository(db),
		reviewRepo:    repository.NewReviewRepository(db),
		bookingRepo:   repository.NewBookingRepository(db),
		activityRepo:  repository.NewActivityRepository(db),
		userRepo:      repository.NewUserRepository(db),
		txManager:     repository.NewTxManager(db),
	}
	env.aggregates = NewAggregateService(env.followingRepo, env.reviewRepo, env.bookingRepo)
	// nil redis makes Record persist synchronously, which the tests rely on.
	env.activities = NewActivityService(nil, env.activityRepo, env.userRepo)
	return env
}

func (e *testEnv) courtService() CourtService {
	return NewCourtService(e.courtRepo, e.followingRepo, e.bookingRepo,
		e.aggregates, e.activities, stubSearch{}, nil, time.Minute)
}

func (e *testEnv) mediaService() MediaService {
	return NewMediaService(e.courtRepo, e.mediaRepo, e.txManager, e.activities, stubStorage{})
}

func (e *testEnv) reviewService() ReviewService {
	return NewReviewService(e.courtRepo, e.reviewRepo, e.bookingRepo, e.txManager,
		e.aggregates, e.activities, e.courtService(), nil, time.Minute)
}

func (e *testEnv) seedUser(t *testing.T, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username}
	if err := e.userRepo.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return user
}

func (e *testEnv) seedCourt(t *testing.T, owner *model.User) *model.Court {
	t.Helper()
	court := &model.Court{
		Name:    "Test Court",
		Address: "123 Baseline Rd",
		OwnerID: owner.ID,
		Status:  model.CourtStatusActive,
	}
	if err := e.db.Create(court).Error; err != nil {
		t.Fatalf("failed to seed court: %v", err)
	}
	return court
}

func (e *testEnv) seedBooking(t *testing.T, court *model.Court, booker *model.User, end time.Time, status model.BookingStatus) *model.Booking {
	t.Helper()
	booking := &model.Booking{
		CourtID:    court.ID,
		BookedByID: booker.ID,
		Start:      end.Add(-time.Hour),
		End:        end,
		Status:     status,
	}
	if err := e.db.Create(booking).Error; err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}
	return booking
}

func (e *testEnv) activityCount(t *testing.T, courtID uuid.UUID, activityType model.ActivityType) int64 {
	t.Helper()
	var count int64
	err := e.db.Model(&model.Activity{}).
		Where("court_id = ? AND type = ?", courtID, activityType).
		Count(&count).Error
	if err != nil {
		t.Fatalf("failed to count activities: %v", err)
	}
	return count
}

func actorFor(user *model.User, permissions ...Permission) Actor {
	return Actor{ID: user.ID, Permissions: permissions}
}

type stubSearch struct{}

func (stubSearch) IndexCourt(*model.Court) error { return nil }
func (stubSearch) DeleteCourt(string) error      { return nil }
func (stubSearch) SearchCourts(string) ([]uuid.UUID, error) {
	return nil, fmt.Errorf("search index unavailable")
}

type stubStorage struct{}

func (stubStorage) UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	return "https://cdn.test/" + folder + "/" + fileName, nil
}

func (stubStorage) UploadVideo(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	return "https://cdn.test/" + folder + "/" + fileName, nil
}

func (stubStorage) Delete(ctx context.Context, fileURL string) error { return nil }

func makeFileHeader(t *testing.T, fileName, content string) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(body.Len()) + 1024)
	if err != nil {
		t.Fatalf("failed to read multipart form: %v", err)
	}
	files := form.File["file"]
	if len(files) != 1 {
		t.Fatalf("expected 1 file header, got %d", len(files))
	}
	return files[0]
}
