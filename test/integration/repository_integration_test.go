package integration

import (
	"context"
	"testing"
	"time"

	"cakery/internal/model"
	"cakery/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createProfile(t *testing.T, repo repository.UserRepository, role model.Role) *model.UserProfile {
	t.Helper()

	now := time.Now().UTC()
	profile := &model.UserProfile{
		ID:        uuid.New(),
		AuthID:    "auth0|" + uuid.NewString(),
		Name:      "Test User",
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), profile))
	return profile
}

func newOrder(customerID uuid.UUID) *model.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.Order{
		ID:          uuid.New(),
		OrderNumber: model.NewOrderNumber(now),
		CustomerID:  customerID,
		CakeConfig: model.CakeConfiguration{
			Flavor: model.FlavorChocolate,
			Size:   model.Size8,
			Shape:  model.ShapeRound,
		},
		TotalAmount:     94,
		Status:          model.StatusPending,
		PaymentStatus:   model.PaymentPending,
		DeliveryDate:    now.AddDate(0, 0, 7),
		DeliveryAddress: "12 Bakery Lane, Kampala",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func createOrder(t *testing.T, repo repository.OrderRepository, order *model.Order) {
	t.Helper()
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, tx, order))
	require.NoError(t, tx.Commit(ctx))
}

func TestUserRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	ctx := context.Background()
	logger := zerolog.Nop()

	repo := repository.NewUserRepository(db.Pool, logger)

	profile := createProfile(t, repo, model.RoleCustomer)
	admin := createProfile(t, repo, model.RoleAdmin)

	t.Run("GetByAuthID", func(t *testing.T) {
		found, err := repo.GetByAuthID(ctx, profile.AuthID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, profile.ID, found.ID)
		assert.Equal(t, model.RoleCustomer, found.Role)
	})

	t.Run("GetByAuthID absent", func(t *testing.T) {
		found, err := repo.GetByAuthID(ctx, "auth0|nobody")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("ListByRole", func(t *testing.T) {
		customers, err := repo.ListByRole(ctx, model.RoleCustomer)
		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.Equal(t, profile.ID, customers[0].ID)

		admins, err := repo.ListByRole(ctx, model.RoleAdmin)
		require.NoError(t, err)
		require.Len(t, admins, 1)
		assert.Equal(t, admin.ID, admins[0].ID)
	})
}

func TestCakeRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	ctx := context.Background()
	logger := zerolog.Nop()

	userRepo := repository.NewUserRepository(db.Pool, logger)
	cakeRepo := repository.NewCakeRepository(db.Pool, logger)

	owner := createProfile(t, userRepo, model.RoleCustomer)
	stranger := createProfile(t, userRepo, model.RoleCustomer)

	now := time.Now().UTC().Truncate(time.Microsecond)
	cake := &model.Cake{
		ID:         uuid.New(),
		CustomerID: owner.ID,
		Name:       "Birthday classic",
		Config: model.CakeConfiguration{
			Flavor: model.FlavorVanilla,
			Size:   model.Size6,
			Customization: &model.Customization{
				Message: "Happy Birthday!",
				Colors:  []string{"pink", "gold"},
			},
		},
		PriceUnits: 65,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, cakeRepo.Create(ctx, cake))

	t.Run("GetForCustomer", func(t *testing.T) {
		found, err := cakeRepo.GetForCustomer(ctx, cake.ID, owner.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, cake.Name, found.Name)
		// JSONB round-trips the configuration intact
		require.NotNil(t, found.Config.Customization)
		assert.Equal(t, "Happy Birthday!", found.Config.Customization.Message)
	})

	t.Run("GetForCustomer wrong owner", func(t *testing.T) {
		found, err := cakeRepo.GetForCustomer(ctx, cake.ID, stranger.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("SetPreviewURL", func(t *testing.T) {
		url := "https://example.com/previews/" + cake.ID.String() + ".png"
		require.NoError(t, cakeRepo.SetPreviewURL(ctx, cake.ID, url))

		found, err := cakeRepo.GetForCustomer(ctx, cake.ID, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, url, found.PreviewURL)
	})

	t.Run("ListByCustomer", func(t *testing.T) {
		cakes, err := cakeRepo.ListByCustomer(ctx, owner.ID)
		require.NoError(t, err)
		assert.Len(t, cakes, 1)

		none, err := cakeRepo.ListByCustomer(ctx, stranger.ID)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestOrderRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	ctx := context.Background()
	logger := zerolog.Nop()

	userRepo := repository.NewUserRepository(db.Pool, logger)
	orderRepo := repository.NewOrderRepository(db.Pool, logger)

	owner := createProfile(t, userRepo, model.RoleCustomer)
	stranger := createProfile(t, userRepo, model.RoleCustomer)

	order := newOrder(owner.ID)
	createOrder(t, orderRepo, order)

	t.Run("GetByID", func(t *testing.T) {
		found, err := orderRepo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, order.OrderNumber, found.OrderNumber)
		assert.Equal(t, int64(94), found.TotalAmount)
		assert.Equal(t, model.FlavorChocolate, found.CakeConfig.Flavor)
	})

	t.Run("GetByID absent", func(t *testing.T) {
		found, err := orderRepo.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("GetForCustomer wrong owner", func(t *testing.T) {
		found, err := orderRepo.GetForCustomer(ctx, order.ID, stranger.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("List with filters", func(t *testing.T) {
		second := newOrder(owner.ID)
		second.Status = model.StatusBaking
		createOrder(t, orderRepo, second)

		all, err := orderRepo.List(ctx, repository.OrderFilter{CustomerID: &owner.ID})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		baking := model.StatusBaking
		filtered, err := orderRepo.List(ctx, repository.OrderFilter{CustomerID: &owner.ID, Status: &baking})
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		assert.Equal(t, second.ID, filtered[0].ID)

		none, err := orderRepo.List(ctx, repository.OrderFilter{CustomerID: &stranger.ID})
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("UpdateStatuses and AppendEvent commit together", func(t *testing.T) {
		order.Status = model.StatusConfirmed
		order.PaymentStatus = model.PaymentPaid
		order.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

		event := &model.OrderEvent{
			ID:          uuid.New(),
			OrderID:     order.ID,
			EventType:   model.EventPaymentConfirmed,
			Description: "Payment confirmed by customer",
			CreatedBy:   &owner.ID,
			CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
		}

		tx, err := orderRepo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, orderRepo.UpdateStatuses(ctx, tx, order))
		require.NoError(t, orderRepo.AppendEvent(ctx, tx, event))
		require.NoError(t, tx.Commit(ctx))

		found, err := orderRepo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusConfirmed, found.Status)
		assert.Equal(t, model.PaymentPaid, found.PaymentStatus)

		events, err := orderRepo.ListEvents(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, model.EventPaymentConfirmed, events[0].EventType)
	})

	t.Run("Rolled back event is not visible", func(t *testing.T) {
		event := &model.OrderEvent{
			ID:          uuid.New(),
			OrderID:     order.ID,
			EventType:   "note",
			Description: "should never be stored",
			CreatedAt:   time.Now().UTC(),
		}

		tx, err := orderRepo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, orderRepo.AppendEvent(ctx, tx, event))
		require.NoError(t, tx.Rollback(ctx))

		events, err := orderRepo.ListEvents(ctx, order.ID)
		require.NoError(t, err)
		for _, e := range events {
			assert.NotEqual(t, event.ID, e.ID)
		}
	})

	t.Run("ListEventsForOrders groups newest first", func(t *testing.T) {
		other := newOrder(owner.ID)
		createOrder(t, orderRepo, other)

		older := &model.OrderEvent{
			ID:          uuid.New(),
			OrderID:     other.ID,
			EventType:   model.EventOrderPlaced,
			Description: "Order placed",
			CreatedAt:   time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond),
		}
		newer := &model.OrderEvent{
			ID:          uuid.New(),
			OrderID:     other.ID,
			EventType:   "note",
			Description: "Sketch approved",
			CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
		}

		tx, err := orderRepo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, orderRepo.AppendEvent(ctx, tx, older))
		require.NoError(t, orderRepo.AppendEvent(ctx, tx, newer))
		require.NoError(t, tx.Commit(ctx))

		grouped, err := orderRepo.ListEventsForOrders(ctx, []uuid.UUID{order.ID, other.ID})
		require.NoError(t, err)

		require.Len(t, grouped[other.ID], 2)
		assert.Equal(t, newer.ID, grouped[other.ID][0].ID)
		assert.Equal(t, older.ID, grouped[other.ID][1].ID)
	})
}
