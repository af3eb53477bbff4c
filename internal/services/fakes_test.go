package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/nnypa/endorsement_service/internal/domain"
	"github.com/nnypa/endorsement_service/internal/repository"
	"gorm.io/gorm"
)

// In-memory stand-ins for the repository interfaces.

type fakeUserRepo struct {
	users  map[uint]*domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*domain.User{}, nextID: 1}
}

func (f *fakeUserRepo) CreateUser(user *domain.User) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == user.Email {
			return nil, errors.New("duplicate email")
		}
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) SaveUser(user *domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindUserByEmail(email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindUserById(userID uint) (*domain.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindUserByResetToken(hash string) (*domain.User, error) {
	for _, u := range f.users {
		if u.ResetTokenHash == hash && hash != "" {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindUserByVerificationTokenHash(hash string) (*domain.User, error) {
	for _, u := range f.users {
		if u.VerificationToken == hash && hash != "" {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) CountUsers() (int64, error) {
	return int64(len(f.users)), nil
}

type fakeProfileRepo struct {
	profiles map[uint]*domain.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[uint]*domain.Profile{}}
}

func (f *fakeProfileRepo) Upsert(profile *domain.Profile) error {
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeProfileRepo) FindByUserID(userID uint) (*domain.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) ListAll(limit, offset int) ([]domain.Profile, error) {
	out := make([]domain.Profile, 0, len(f.profiles))
	for _, p := range f.profiles {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (f *fakeProfileRepo) Count() (int64, error) {
	return int64(len(f.profiles)), nil
}

type fakeAppRepo struct {
	apps      map[uint]*domain.EndorsementApplication
	nextID    uint
	createErr error
}

func newFakeAppRepo() *fakeAppRepo {
	return &fakeAppRepo{apps: map[uint]*domain.EndorsementApplication{}, nextID: 1}
}

func (f *fakeAppRepo) CreateWithDocuments(app *domain.EndorsementApplication, docs []domain.ApplicationDocument) error {
	if f.createErr != nil {
		return f.createErr
	}
	app.ID = f.nextID
	f.nextID++
	for i := range docs {
		docs[i].ApplicationID = app.ID
		docs[i].ID = uint(i + 1)
	}
	app.Documents = docs
	f.apps[app.ID] = app
	return nil
}

func (f *fakeAppRepo) FindByID(appID uint) (*domain.EndorsementApplication, error) {
	app, ok := f.apps[appID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *app
	return &cp, nil
}

func (f *fakeAppRepo) ListByUserID(userID uint) ([]domain.EndorsementApplication, error) {
	var out []domain.EndorsementApplication
	for _, app := range f.apps {
		if app.UserID == userID {
			out = append(out, *app)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (f *fakeAppRepo) ListAll(limit, offset int) ([]domain.EndorsementApplication, error) {
	out := make([]domain.EndorsementApplication, 0, len(f.apps))
	for _, app := range f.apps {
		out = append(out, *app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAppRepo) Review(appID uint, adminID uint, decision domain.ReviewDecision, score *int, notes, analysis *string) error {
	app, ok := f.apps[appID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if app.Status != domain.ApplicationStatusPending {
		return repository.ErrAlreadyReviewed
	}

	if decision == domain.ReviewDecisionRejected {
		app.Status = domain.ApplicationStatusRejected
	} else {
		app.Status = domain.ApplicationStatusApproved
	}
	now := time.Now()
	app.ReviewedAt = &now
	app.ReviewedBy = &adminID
	if score != nil {
		app.NNYPAScore = score
	}
	if notes != nil {
		app.AdminNotes = notes
	}
	if analysis != nil {
		app.NNYPAAnalysis = analysis
	}
	return nil
}

type fakeGrantRepo struct {
	grants map[uint]bool
}

func newFakeGrantRepo(adminIDs ...uint) *fakeGrantRepo {
	g := &fakeGrantRepo{grants: map[uint]bool{}}
	for _, id := range adminIDs {
		g.grants[id] = true
	}
	return g
}

func (f *fakeGrantRepo) HasGrant(userID uint) (bool, error) {
	return f.grants[userID], nil
}

func (f *fakeGrantRepo) FindByUserID(userID uint) (*domain.AdminGrant, error) {
	if !f.grants[userID] {
		return nil, gorm.ErrRecordNotFound
	}
	return &domain.AdminGrant{UserID: userID}, nil
}

type fakeUploader struct {
	calls   []string
	failAt  int // 1-based index of the call that fails, 0 = never
	nextURL int
}

func (f *fakeUploader) UploadBytes(ctx context.Context, folder, filename string, b []byte) (string, error) {
	f.calls = append(f.calls, folder+"/"+filename)
	if f.failAt > 0 && len(f.calls) >= f.failAt {
		return "", errors.New("upload failed")
	}
	f.nextURL++
	return fmt.Sprintf("https://cdn.example/%s/%d", folder, f.nextURL), nil
}

type fakeProducer struct {
	keys []string
}

func (f *fakeProducer) PublishMessage(key, value []byte) error {
	f.keys = append(f.keys, string(key))
	return nil
}
