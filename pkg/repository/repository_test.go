package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"reward-platform/pkg/db/option"
	"reward-platform/services/testutil"
)

type widget struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	Size      int       `gorm:"column:size"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func seed(t *testing.T, repo Repository[widget]) {
	t.Helper()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(context.Background(), &widget{
			ID:        name,
			Name:      name,
			Size:      i + 1,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
}

func TestStoreFindOneMissing(t *testing.T) {
	repo := ProvideStore[widget](testutil.NewTestDB(t, &widget{}))

	got, err := repo.FindOne(context.Background(), &widget{ID: "nope"})
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestStoreFindWithOptions(t *testing.T) {
	repo := ProvideStore[widget](testutil.NewTestDB(t, &widget{}))
	seed(t, repo)

	got, err := repo.Find(context.Background(), nil,
		option.ApplyOperator(option.Condition{Field: "size", Operator: option.GTE, Value: 2}),
		option.WithSortBy(option.QuerySortBy{OrderBy: "DESC"}),
	)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "c", got[0].ID)
	require.Equal(t, "b", got[1].ID)
}

func TestStoreUpdateDeleteCount(t *testing.T) {
	ctx := context.Background()
	repo := ProvideStore[widget](testutil.NewTestDB(t, &widget{}))
	seed(t, repo)

	require.NoError(t, repo.Update(ctx, "a", map[string]any{"name": "renamed"}))
	got, err := repo.FindOne(ctx, &widget{ID: "a"})
	require.NoError(t, err)
	require.Equal(t, "renamed", got.Name)

	n, err := repo.Delete(ctx, "b")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = repo.Delete(ctx, "b")
	require.NoError(t, err)
	require.EqualValues(t, 0, n)

	count, err := repo.Count(ctx, nil)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}
