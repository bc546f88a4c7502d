package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cmsapi/internal/media"
	"cmsapi/internal/model"
	"cmsapi/internal/repository"
)

// Caller is the authenticated identity a request acts as.
type Caller struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// ProfileUpdate lists the editable profile fields. Nil fields are left untouched.
type ProfileUpdate struct {
	FirstName     *string
	LastName      *string
	Gender        *string
	DOB           *string
	Phone         *string
	Bio           *string
	Address       *string
	AcademicTitle *string
	Expertise     *string
	Avatar        *Upload
}

// ProfileService defines user profile use cases.
type ProfileService interface {
	GetMine(ctx context.Context, userID string) (*model.ProfileView, error)
	// UpdateMine creates the caller's profile on first use.
	UpdateMine(ctx context.Context, caller Caller, in ProfileUpdate) (*model.ProfileView, error)
	List(ctx context.Context) ([]model.ProfileView, error)
	Get(ctx context.Context, id string) (*model.ProfileView, error)
	Delete(ctx context.Context, id string) error
}

type profileService struct {
	profiles repository.ProfileRepository
	users    repository.UserRepository
	uploader *media.Uploader
	log      *zap.Logger
	now      func() time.Time
}

// NewProfileService constructs a ProfileService.
func NewProfileService(profiles repository.ProfileRepository, users repository.UserRepository, uploader *media.Uploader, log *zap.Logger) ProfileService {
	if log == nil {
		log = zap.NewNop()
	}
	return &profileService{
		profiles: profiles,
		users:    users,
		uploader: uploader,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *profileService) GetMine(ctx context.Context, userID string) (*model.ProfileView, error) {
	p, err := s.profiles.FindOneBy(ctx, "user", userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("PROFILE_NOT_FOUND", "profile not found")
		}
		return nil, internal(err)
	}
	return s.view(ctx, p)
}

func (s *profileService) UpdateMine(ctx context.Context, caller Caller, in ProfileUpdate) (*model.ProfileView, error) {
	existing := true
	p, err := s.profiles.FindOneBy(ctx, "user", caller.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, internal(err)
		}
		existing = false
		p = &model.UserProfile{
			ID:        uuid.NewString(),
			User:      caller.ID,
			Gender:    model.GenderOther,
			CreatedAt: s.now(),
		}
	}

	if err := applyProfile(p, in); err != nil {
		return nil, err
	}

	var avatarKey string
	if in.Avatar != nil {
		_, ext := media.SplitName(in.Avatar.Filename)
		name := firstNonEmpty(caller.Name, caller.Email, "user")
		avatarKey = media.ObjectKey("avatars", "", caller.ID, s.now(), name, ext)
		url, err := s.uploader.Put(ctx, avatarKey, in.Avatar.Reader, in.Avatar.Size, in.Avatar.ContentType)
		if err != nil {
			return nil, internal(err)
		}
		p.AvatarURL = url
	}
	p.UpdatedAt = s.now()

	if existing {
		err = s.profiles.Replace(ctx, p.ID, p)
	} else {
		err = s.profiles.Create(ctx, p)
	}
	if err != nil {
		if avatarKey != "" {
			s.uploader.Delete(context.WithoutCancel(ctx), avatarKey)
		}
		return nil, internal(err)
	}

	s.log.Info("profile_updated", zap.String("user_id", caller.ID), zap.Bool("created", !existing))
	return s.view(ctx, p)
}

func (s *profileService) List(ctx context.Context) ([]model.ProfileView, error) {
	res, err := s.profiles.List(ctx, repository.PageQuery{})
	if err != nil {
		return nil, internal(err)
	}

	userIDs := make([]string, 0, len(res.Items))
	for _, p := range res.Items {
		userIDs = append(userIDs, p.User)
	}
	users := map[string]model.User{}
	if len(userIDs) > 0 {
		found, err := s.users.FindByIDs(ctx, userIDs)
		if err != nil {
			return nil, internal(err)
		}
		for _, u := range found {
			users[u.ID] = u
		}
	}

	out := make([]model.ProfileView, 0, len(res.Items))
	for _, p := range res.Items {
		v := model.ProfileView{UserProfile: p}
		if u, ok := users[p.User]; ok {
			v.User = userSummary(u)
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *profileService) Get(ctx context.Context, id string) (*model.ProfileView, error) {
	p, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("PROFILE_NOT_FOUND", "profile not found")
		}
		return nil, internal(err)
	}
	return s.view(ctx, p)
}

func (s *profileService) Delete(ctx context.Context, id string) error {
	if err := s.profiles.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("PROFILE_NOT_FOUND", "profile not found")
		}
		return internal(err)
	}
	return nil
}

func (s *profileService) view(ctx context.Context, p *model.UserProfile) (*model.ProfileView, error) {
	v := &model.ProfileView{UserProfile: *p}
	u, err := s.users.FindByID(ctx, p.User)
	switch {
	case err == nil:
		v.User = userSummary(*u)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, internal(err)
	}
	return v, nil
}

func applyProfile(p *model.UserProfile, in ProfileUpdate) error {
	if in.Gender != nil {
		g := model.Gender(strings.TrimSpace(*in.Gender))
		if !g.Valid() {
			return invalid("INVALID_GENDER", "gender must be one of male, female, other")
		}
		p.Gender = g
	}
	if in.DOB != nil {
		if strings.TrimSpace(*in.DOB) == "" {
			p.DOB = nil
		} else {
			t, ok := parseTime(*in.DOB)
			if !ok {
				return invalid("INVALID_DOB", "dob is not a valid date")
			}
			p.DOB = &t
		}
	}

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&p.FirstName, in.FirstName)
	set(&p.LastName, in.LastName)
	set(&p.Phone, in.Phone)
	set(&p.Bio, in.Bio)
	set(&p.Address, in.Address)
	set(&p.AcademicTitle, in.AcademicTitle)
	set(&p.Expertise, in.Expertise)
	return nil
}

func userSummary(u model.User) *model.UserSummary {
	return &model.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
