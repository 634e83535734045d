package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"confhub/core/errors"
	"confhub/modules/talk/dto"
	"confhub/modules/talk/entity"

	"github.com/google/uuid"
)

type fakeTalkRepo struct {
	talks      map[uuid.UUID]*entity.Talk
	favorites  map[uuid.UUID][]uuid.UUID
	statusFail bool
}

func newFakeTalkRepo() *fakeTalkRepo {
	return &fakeTalkRepo{talks: map[uuid.UUID]*entity.Talk{}, favorites: map[uuid.UUID][]uuid.UUID{}}
}

func (f *fakeTalkRepo) Create(ctx context.Context, talk *entity.Talk) (*entity.Talk, error) {
	created := *talk
	created.ID = uuid.New()
	f.talks[created.ID] = &created
	return &created, nil
}

func (f *fakeTalkRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Talk, error) {
	return f.talks[id], nil
}

func (f *fakeTalkRepo) GetBySlug(ctx context.Context, slug string) (*entity.Talk, error) {
	for _, t := range f.talks {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeTalkRepo) List(ctx context.Context, q *dto.ListTalksQuery) ([]entity.Talk, error) {
	var out []entity.Talk
	for _, t := range f.talks {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTalkRepo) ListBySpeaker(ctx context.Context, speakerID uuid.UUID) ([]entity.Talk, error) {
	var out []entity.Talk
	for _, t := range f.talks {
		if t.SpeakerID == speakerID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTalkRepo) Update(ctx context.Context, talk *entity.Talk) error {
	f.talks[talk.ID] = talk
	return nil
}

func (f *fakeTalkRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.TalkStatus) (bool, error) {
	if f.statusFail {
		return false, nil
	}
	t, ok := f.talks[id]
	if !ok || t.Status != from {
		return false, nil
	}
	t.Status = to
	return true, nil
}

func (f *fakeTalkRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.talks, id)
	return nil
}

func (f *fakeTalkRepo) SetAttachmentURL(ctx context.Context, id uuid.UUID, url string) error {
	f.talks[id].AttachmentURL = &url
	return nil
}

func (f *fakeTalkRepo) ListSubjects(ctx context.Context) ([]entity.Subject, error) {
	return []entity.Subject{{ID: uuid.New(), Name: "Backend"}}, nil
}

func (f *fakeTalkRepo) AddFavorite(ctx context.Context, userID, talkID uuid.UUID) error {
	f.favorites[userID] = append(f.favorites[userID], talkID)
	return nil
}

func (f *fakeTalkRepo) RemoveFavorite(ctx context.Context, userID, talkID uuid.UUID) error {
	return nil
}

func (f *fakeTalkRepo) ListFavorites(ctx context.Context, userID uuid.UUID) ([]entity.Talk, error) {
	var out []entity.Talk
	for _, id := range f.favorites[userID] {
		if t, ok := f.talks[id]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

type fakeStorage struct {
	uploads []string
}

func (f *fakeStorage) Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	f.uploads = append(f.uploads, key)
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error { return nil }

type fakeNotifier struct {
	kinds []string
}

func (f *fakeNotifier) Notify(ctx context.Context, userID uuid.UUID, kind string, payload map[string]any) error {
	f.kinds = append(f.kinds, kind)
	return nil
}

func newService(t *testing.T) (TalkService, *fakeTalkRepo, *fakeNotifier) {
	t.Helper()
	repo := newFakeTalkRepo()
	notifier := &fakeNotifier{}
	return NewTalkService(repo, &fakeStorage{}, notifier), repo, notifier
}

func seed(repo *fakeTalkRepo, status entity.TalkStatus, speakerID uuid.UUID) *entity.Talk {
	talk := &entity.Talk{
		ID:              uuid.New(),
		Title:           "Escape analysis explained",
		Slug:            "escape-analysis-explained-abc1234",
		DurationMinutes: 45,
		Level:           entity.LevelIntermediate,
		Status:          status,
		SpeakerID:       speakerID,
	}
	repo.talks[talk.ID] = talk
	return talk
}

func TestTalkServiceCreate(t *testing.T) {
	svc, _, _ := newService(t)
	speakerID := uuid.New()

	t.Run("valid submission starts pending", func(t *testing.T) {
		talk, appErr := svc.Create(context.Background(), speakerID, &dto.CreateTalkRequest{
			Title:           "Escape analysis explained",
			DurationMinutes: 45,
			Level:           "intermediate",
		})
		if appErr != nil {
			t.Fatalf("Create() error = %v", appErr)
		}
		if talk.Status != entity.StatusPending {
			t.Errorf("status = %s, want pending", talk.Status)
		}
		if !strings.HasPrefix(talk.Slug, "escape-analysis-explained-") {
			t.Errorf("slug = %q, want title-derived prefix", talk.Slug)
		}
	})

	t.Run("over-long duration rejected", func(t *testing.T) {
		_, appErr := svc.Create(context.Background(), speakerID, &dto.CreateTalkRequest{
			Title:           "A very long workshop",
			DurationMinutes: 241,
			Level:           "beginner",
		})
		if appErr == nil || appErr.Code != errors.ErrInvalidRequestData {
			t.Errorf("Create() = %v, want INVALID_REQUEST_DATA", appErr)
		}
	})

	t.Run("unknown level rejected", func(t *testing.T) {
		_, appErr := svc.Create(context.Background(), speakerID, &dto.CreateTalkRequest{
			Title:           "Talk",
			DurationMinutes: 30,
			Level:           "wizard",
		})
		if appErr == nil || appErr.Code != errors.ErrInvalidRequestData {
			t.Errorf("Create() = %v, want INVALID_REQUEST_DATA", appErr)
		}
	})
}

func TestTalkServiceDecisions(t *testing.T) {
	t.Run("accept pending talk notifies speaker", func(t *testing.T) {
		svc, repo, notifier := newService(t)
		talk := seed(repo, entity.StatusPending, uuid.New())

		accepted, appErr := svc.Accept(context.Background(), talk.ID)
		if appErr != nil {
			t.Fatalf("Accept() error = %v", appErr)
		}
		if accepted.Status != entity.StatusAccepted {
			t.Errorf("status = %s, want accepted", accepted.Status)
		}
		if len(notifier.kinds) != 1 || notifier.kinds[0] != "talk_accepted" {
			t.Errorf("notifications = %v, want [talk_accepted]", notifier.kinds)
		}
	})

	t.Run("reject pending talk", func(t *testing.T) {
		svc, repo, _ := newService(t)
		talk := seed(repo, entity.StatusPending, uuid.New())

		rejected, appErr := svc.Reject(context.Background(), talk.ID)
		if appErr != nil {
			t.Fatalf("Reject() error = %v", appErr)
		}
		if rejected.Status != entity.StatusRejected {
			t.Errorf("status = %s, want rejected", rejected.Status)
		}
	})

	t.Run("accepting a rejected talk fails", func(t *testing.T) {
		svc, repo, notifier := newService(t)
		talk := seed(repo, entity.StatusRejected, uuid.New())

		_, appErr := svc.Accept(context.Background(), talk.ID)
		if appErr == nil || appErr.Code != errors.ErrInvalidStateTransition {
			t.Errorf("Accept() = %v, want INVALID_STATE_TRANSITION", appErr)
		}
		if len(notifier.kinds) != 0 {
			t.Error("no notification may be sent on a rejected transition")
		}
	})

	t.Run("lost status race fails without notification", func(t *testing.T) {
		svc, repo, notifier := newService(t)
		talk := seed(repo, entity.StatusPending, uuid.New())
		repo.statusFail = true

		_, appErr := svc.Accept(context.Background(), talk.ID)
		if appErr == nil || appErr.Code != errors.ErrInvalidStateTransition {
			t.Errorf("Accept() = %v, want INVALID_STATE_TRANSITION", appErr)
		}
		if len(notifier.kinds) != 0 {
			t.Error("no notification may be sent on a lost race")
		}
	})

	t.Run("unknown talk", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, appErr := svc.Accept(context.Background(), uuid.New())
		if appErr == nil || appErr.Code != errors.ErrNotFound {
			t.Errorf("Accept() = %v, want NOT_FOUND", appErr)
		}
	})
}

func TestTalkServiceUpdate(t *testing.T) {
	t.Run("owner edits a pending talk", func(t *testing.T) {
		svc, repo, _ := newService(t)
		speakerID := uuid.New()
		talk := seed(repo, entity.StatusPending, speakerID)

		newTitle := "Escape analysis in depth"
		updated, appErr := svc.Update(context.Background(), talk.ID, speakerID, false, &dto.UpdateTalkRequest{Title: &newTitle})
		if appErr != nil {
			t.Fatalf("Update() error = %v", appErr)
		}
		if updated.Title != newTitle {
			t.Errorf("title = %q, want %q", updated.Title, newTitle)
		}
		if !strings.HasPrefix(updated.Slug, "escape-analysis-in-depth-") {
			t.Errorf("slug = %q, want regenerated from new title", updated.Slug)
		}
	})

	t.Run("stranger may not edit", func(t *testing.T) {
		svc, repo, _ := newService(t)
		talk := seed(repo, entity.StatusPending, uuid.New())

		desc := "hijacked"
		_, appErr := svc.Update(context.Background(), talk.ID, uuid.New(), false, &dto.UpdateTalkRequest{Description: &desc})
		if appErr == nil || appErr.Code != errors.ErrForbidden {
			t.Errorf("Update() = %v, want FORBIDDEN", appErr)
		}
	})

	t.Run("organizer may edit any talk", func(t *testing.T) {
		svc, repo, _ := newService(t)
		talk := seed(repo, entity.StatusAccepted, uuid.New())

		desc := "curated description"
		_, appErr := svc.Update(context.Background(), talk.ID, uuid.New(), true, &dto.UpdateTalkRequest{Description: &desc})
		if appErr != nil {
			t.Errorf("Update() error = %v", appErr)
		}
	})

	t.Run("scheduled talk is locked", func(t *testing.T) {
		svc, repo, _ := newService(t)
		speakerID := uuid.New()
		talk := seed(repo, entity.StatusScheduled, speakerID)

		desc := "late edit"
		_, appErr := svc.Update(context.Background(), talk.ID, speakerID, false, &dto.UpdateTalkRequest{Description: &desc})
		if appErr == nil || appErr.Code != errors.ErrInvalidStateTransition {
			t.Errorf("Update() = %v, want INVALID_STATE_TRANSITION", appErr)
		}
	})
}

func TestTalkServiceUploadAttachment(t *testing.T) {
	repo := newFakeTalkRepo()
	store := &fakeStorage{}
	svc := NewTalkService(repo, store, nil)
	speakerID := uuid.New()
	talk := seed(repo, entity.StatusAccepted, speakerID)

	url, appErr := svc.UploadAttachment(context.Background(), talk.ID, speakerID,
		"Slides Final.pdf", "application/pdf", strings.NewReader("%PDF"))
	if appErr != nil {
		t.Fatalf("UploadAttachment() error = %v", appErr)
	}
	if url == "" || len(store.uploads) != 1 {
		t.Fatalf("expected one upload, got %v", store.uploads)
	}
	if got := repo.talks[talk.ID].AttachmentURL; got == nil || *got != url {
		t.Errorf("attachment url not recorded, got %v", got)
	}

	_, appErr = svc.UploadAttachment(context.Background(), talk.ID, uuid.New(),
		"x.pdf", "application/pdf", strings.NewReader("%PDF"))
	if appErr == nil || appErr.Code != errors.ErrForbidden {
		t.Errorf("UploadAttachment() stranger = %v, want FORBIDDEN", appErr)
	}
}
