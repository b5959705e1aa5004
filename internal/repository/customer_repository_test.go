package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/Dhoini/Customer-microservice/internal/domain"
	"github.com/Dhoini/Customer-microservice/internal/repository"
	"github.com/Dhoini/Customer-microservice/internal/repository/repositorytest"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCustomerRepository(t *testing.T) {
	repositorytest.RunCustomerRepositoryContract(t, func(t *testing.T) repository.CustomerRepository {
		return repository.NewInMemoryCustomerRepository(logger.NewNop())
	})
}

func TestInMemoryCustomerRepositoryConcurrentInserts(t *testing.T) {
	repo := repository.NewInMemoryCustomerRepository(logger.NewNop())
	ctx := context.Background()

	const workers = 20
	done := make(chan int64, workers)
	for i := 0; i < workers; i++ {
		go func() {
			saved, err := repo.Save(ctx, domain.Customer{Name: "Name"})
			assert.NoError(t, err)
			done <- saved.ID
		}()
	}

	seen := make(map[int64]bool)
	for i := 0; i < workers; i++ {
		seen[<-done] = true
	}
	assert.Len(t, seen, workers)

	customers, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, workers)
}

func TestLater(t *testing.T) {
	early := time.Date(2022, 12, 3, 10, 15, 30, 0, time.UTC)
	late := early.Add(time.Hour)

	assert.Equal(t, late, repository.Later(early, late))
	assert.Equal(t, late, repository.Later(late, early))
	assert.Equal(t, early, repository.Later(early, early))
}
