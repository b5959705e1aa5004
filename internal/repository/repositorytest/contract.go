// Package repositorytest содержит общий набор проверок для реализаций
// repository.CustomerRepository.
package repositorytest

import (
	"context"
	"errors"
	"testing"

	"github.com/Dhoini/Customer-microservice/internal/domain"
	"github.com/Dhoini/Customer-microservice/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory возвращает пустой репозиторий для одного подтеста
type Factory func(t *testing.T) repository.CustomerRepository

// RunCustomerRepositoryContract проверяет поведение, общее для всех хранилищ
func RunCustomerRepositoryContract(t *testing.T, newRepo Factory) {
	t.Run("empty store lists nothing", func(t *testing.T) {
		repo := newRepo(t)

		customers, err := repo.FindAll(context.Background())
		require.NoError(t, err)
		assert.Empty(t, customers)
	})

	t.Run("insert assigns id and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		saved, err := repo.Save(ctx, domain.Customer{Name: "Name", Email: "email@test.com", Age: 27})
		require.NoError(t, err)

		assert.NotZero(t, saved.ID)
		assert.False(t, saved.CreatedAt.IsZero())
		assert.False(t, saved.UpdatedAt.Before(saved.CreatedAt))

		found, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, "Name", found.Name)
		assert.Equal(t, "email@test.com", found.Email)
		assert.Equal(t, 27, found.Age)
	})

	t.Run("find all keeps id order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, err := repo.Save(ctx, domain.Customer{Name: "A"})
		require.NoError(t, err)
		second, err := repo.Save(ctx, domain.Customer{Name: "B"})
		require.NoError(t, err)
		third, err := repo.Save(ctx, domain.Customer{Name: "C"})
		require.NoError(t, err)

		customers, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, customers, 3)
		assert.Equal(t, []int64{first.ID, second.ID, third.ID}, ids(customers))
		assert.Equal(t, "A", customers[0].Name)
		assert.Equal(t, "C", customers[2].Name)
	})

	t.Run("update keeps id and creation time", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		saved, err := repo.Save(ctx, domain.Customer{Name: "Name", Email: "email@test.com", Age: 27})
		require.NoError(t, err)

		saved.Apply(domain.CustomerRequest{Name: "Name", Email: "email-mod@test.com", Age: 28})
		updated, err := repo.Save(ctx, saved)
		require.NoError(t, err)

		assert.Equal(t, saved.ID, updated.ID)
		assert.True(t, updated.CreatedAt.Equal(saved.CreatedAt))
		assert.False(t, updated.UpdatedAt.Before(saved.UpdatedAt))

		found, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, "email-mod@test.com", found.Email)
		assert.Equal(t, 28, found.Age)
	})

	t.Run("update of missing row is not found", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Save(ctx, domain.Customer{ID: 42, Name: "Ghost"})
		assert.True(t, errors.Is(err, repository.ErrNotFound), "got %v", err)

		customers, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, customers)
	})

	t.Run("find missing id is not found", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.FindByID(context.Background(), 42)
		assert.True(t, errors.Is(err, repository.ErrNotFound), "got %v", err)
	})

	t.Run("delete removes the row once", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		saved, err := repo.Save(ctx, domain.Customer{Name: "Name"})
		require.NoError(t, err)

		require.NoError(t, repo.DeleteByID(ctx, saved.ID))

		_, err = repo.FindByID(ctx, saved.ID)
		assert.True(t, errors.Is(err, repository.ErrNotFound), "got %v", err)

		err = repo.DeleteByID(ctx, saved.ID)
		assert.True(t, errors.Is(err, repository.ErrNotFound), "got %v", err)
	})

	t.Run("ids are not reused after delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, err := repo.Save(ctx, domain.Customer{Name: "A"})
		require.NoError(t, err)
		require.NoError(t, repo.DeleteByID(ctx, first.ID))

		second, err := repo.Save(ctx, domain.Customer{Name: "B"})
		require.NoError(t, err)
		assert.Greater(t, second.ID, first.ID)
	})
}

func ids(customers []domain.Customer) []int64 {
	out := make([]int64, 0, len(customers))
	for _, c := range customers {
		out = append(out, c.ID)
	}
	return out
}
