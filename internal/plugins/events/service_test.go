package events

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyxmakerx/together/internal/apperror"
	"github.com/keyxmakerx/together/internal/plugins/auth"
)

// mockEventRepo implements EventRepository for testing.
type mockEventRepo struct {
	listByCategoryFn func(ctx context.Context, category string, limit int) ([]Event, error)
	findByIDsFn      func(ctx context.Context, ids []string, limit int) ([]Event, error)
	countFn          func(ctx context.Context) (int64, error)
}

func (m *mockEventRepo) ListByCategory(ctx context.Context, category string, limit int) ([]Event, error) {
	if m.listByCategoryFn != nil {
		return m.listByCategoryFn(ctx, category, limit)
	}
	return nil, nil
}

func (m *mockEventRepo) FindByIDs(ctx context.Context, ids []string, limit int) ([]Event, error) {
	if m.findByIDsFn != nil {
		return m.findByIDsFn(ctx, ids, limit)
	}
	return nil, nil
}

func (m *mockEventRepo) Count(ctx context.Context) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func catalogue() *mockEventRepo {
	byCategory := map[string][]Event{
		CategoryUpcoming:    {{ID: "1", Title: "Open Studio", Category: CategoryUpcoming}},
		CategoryRecommended: {{ID: "2", Title: "Print Workshop", Category: CategoryRecommended}},
		CategoryPast:        {{ID: "3", Title: "Winter Fair", Category: CategoryPast}, {ID: "4", Title: "Book Swap", Category: CategoryPast}},
	}
	return &mockEventRepo{
		listByCategoryFn: func(ctx context.Context, category string, limit int) ([]Event, error) {
			if limit != ListLimit {
				return nil, errors.New("unexpected limit")
			}
			return byCategory[category], nil
		},
		findByIDsFn: func(ctx context.Context, ids []string, limit int) ([]Event, error) {
			var out []Event
			for _, id := range ids {
				if id == "2" {
					out = append(out, byCategory[CategoryRecommended][0])
				}
			}
			return out, nil
		},
	}
}

func TestMemberEvents(t *testing.T) {
	svc := NewEventService(catalogue())

	resp, err := svc.MemberEvents(context.Background(), &auth.User{RegisteredEvents: []string{"2", "missing"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"Open Studio"}, resp.Upcoming)
	assert.Equal(t, []string{"Print Workshop"}, resp.Registered)
	assert.Equal(t, []string{"Winter Fair", "Book Swap"}, resp.Past)
}

func TestMemberEvents_EmptyListsAreNotNull(t *testing.T) {
	svc := NewEventService(&mockEventRepo{})

	resp, err := svc.MemberEvents(context.Background(), &auth.User{})
	require.NoError(t, err)
	assert.NotNil(t, resp.Upcoming)
	assert.NotNil(t, resp.Registered)
	assert.NotNil(t, resp.Past)
}

func TestMemberEvents_StoreFailure(t *testing.T) {
	svc := NewEventService(&mockEventRepo{
		findByIDsFn: func(ctx context.Context, ids []string, limit int) ([]Event, error) {
			return nil, errors.New("boom")
		},
	})

	_, err := svc.MemberEvents(context.Background(), &auth.User{RegisteredEvents: []string{"1"}})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
}

func TestCount(t *testing.T) {
	svc := NewEventService(&mockEventRepo{
		countFn: func(ctx context.Context) (int64, error) { return 12, nil },
	})

	n, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
}

func TestHandlerMemberEvents(t *testing.T) {
	h := NewHandler(NewEventService(catalogue()))

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/member/events", nil), rec)

	require.NoError(t, h.MemberEvents(c, &auth.User{RegisteredEvents: []string{"2"}}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"upcoming":["Open Studio"],"registered":["Print Workshop"],"past":["Winter Fair","Book Swap"]}`,
		rec.Body.String())
}
