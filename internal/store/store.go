// Package store defines the persistence contract consumed by services.
// Implementations live under internal/store/<driver>/ (sqlite, postgres).
package store

import (
	"context"
	"time"

	"github.com/PeytonLeFleur/lamp-and-light/internal/model"
)

// Store exposes persistence operations required by services.
type Store interface {
	Profiles() Profiles
	Entries() Entries
	Plans() Plans
	Recaps() Recaps
}

type Profiles interface {
	Create(ctx context.Context, p *model.Profile) (*model.Profile, error)
	Get(ctx context.Context, profileID string) (*model.Profile, error)
	// First returns the oldest profile; the background refresher uses it on
	// single-profile installs. ErrNotFound when no profile exists.
	First(ctx context.Context) (*model.Profile, error)
	// Update persists streak and activity fields.
	Update(ctx context.Context, p *model.Profile) error
}

type Entries interface {
	Create(ctx context.Context, e *model.Entry) (*model.Entry, error)
	List(ctx context.Context, req model.ListEntriesRequest) ([]*model.Entry, error)
}

type Plans interface {
	// Create inserts a plan. The (profile, day) uniqueness constraint is
	// enforced here: a duplicate insert returns model.ErrConflict.
	Create(ctx context.Context, p *model.DailyPlan) (*model.DailyPlan, error)
	// Get returns the plan by id or model.ErrNotFound.
	Get(ctx context.Context, profileID, planID string) (*model.DailyPlan, error)
	// GetByDay returns the plan for (profile, day) or model.ErrNotFound.
	GetByDay(ctx context.Context, profileID string, day time.Time) (*model.DailyPlan, error)
	List(ctx context.Context, req model.ListPlansRequest) ([]*model.DailyPlan, error)
	UpdateStatus(ctx context.Context, profileID, planID, status string) (*model.DailyPlan, error)
}

type Recaps interface {
	// Create inserts a recap; duplicate (profile, weekStart) returns
	// model.ErrConflict.
	Create(ctx context.Context, r *model.WeeklyRecap) (*model.WeeklyRecap, error)
	// GetByWeek returns the recap for (profile, weekStart) or model.ErrNotFound.
	GetByWeek(ctx context.Context, profileID string, weekStart time.Time) (*model.WeeklyRecap, error)
}
