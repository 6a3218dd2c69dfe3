package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/nyumba-homes/storefront-api/internal/compare"
	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/nyumba-homes/storefront-api/internal/repository"
	"github.com/nyumba-homes/storefront-api/internal/service"
	"github.com/nyumba-homes/storefront-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToCart(t *testing.T) {
	f := newFixture(t)
	ctx := sessionCtx("s1")

	resp, err := f.storefront.AddToCart(ctx, "prop2")
	require.NoError(t, err)
	assert.Equal(t, domain.Success(service.MsgCartAdded), resp.Notification)
	assert.Equal(t, 1, resp.Cart.Count)
	assert.Equal(t, int64(18000000), resp.Cart.Total)
	assert.Equal(t, "Ksh 18,000,000", resp.Cart.FormattedTotal)

	item := resp.Cart.Items[0]
	assert.Equal(t, domain.CartItem{
		ID:       "prop2",
		Title:    "Modern Apartment in Westlands",
		Price:    "Ksh 18,000,000",
		Location: "Westlands, Nairobi",
		Image:    "images/apartment1.jpg",
	}, item)
}

func TestAddToCart_DuplicateLeavesCartUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := sessionCtx("s1")

	_, err := f.storefront.AddToCart(ctx, "prop1")
	require.NoError(t, err)
	before, err := f.storefront.Cart(ctx)
	require.NoError(t, err)

	_, err = f.storefront.AddToCart(ctx, "prop1")
	var de *domain.DuplicateError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, service.MsgCartDuplicate, de.Message)

	after, err := f.storefront.Cart(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAddToCart_UnknownProperty(t *testing.T) {
	f := newFixture(t)

	_, err := f.storefront.AddToCart(sessionCtx("s1"), "prop404")
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
}

func TestAddToCart_RequiresSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.storefront.AddToCart(context.Background(), "prop1")
	assert.ErrorIs(t, err, service.ErrNoSession)
}

func TestAddToCart_StorageFailure(t *testing.T) {
	f := newFixture(t)
	ctx := sessionCtx("s1")

	f.store.setFailWrite(true)
	_, err := f.storefront.AddToCart(ctx, "prop1")

	var se *domain.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, domain.GenericFailureMessage, domain.UserMessage(err))

	f.store.setFailWrite(false)
	cart, err := f.storefront.Cart(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, cart.Count)
}

func TestMutations_ReadFailureKeepsStoredState(t *testing.T) {
	f := newFixture(t)
	ctx := sessionCtx("s1")

	_, err := f.storefront.AddToCart(ctx, "prop1")
	require.NoError(t, err)
	_, err = f.storefront.ToggleFavorite(ctx, "prop2")
	require.NoError(t, err)
	_, err = f.storefront.AddToComparison(ctx, "prop3")
	require.NoError(t, err)

	var se *domain.StorageError
	f.store.setFailRead(repository.KeyCart)
	_, err = f.storefront.AddToCart(ctx, "prop4")
	assert.ErrorAs(t, err, &se)
	_, err = f.storefront.RemoveFromCart(ctx, "prop9")
	assert.ErrorAs(t, err, &se)

	f.store.setFailRead(repository.KeyFavorites)
	_, err = f.storefront.ToggleFavorite(ctx, "prop5")
	assert.ErrorAs(t, err, &se)

	f.store.setFailRead(repository.KeyComparison)
	_, err = f.storefront.AddToComparison(ctx, "prop6")
	assert.ErrorAs(t, err, &se)
	f.store.setFailRead("")

	state, err := f.storefront.State(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, state.Cart.Count)
	assert.True(t, state.Favorites.Favorite["prop2"])
	assert.False(t, state.Favorites.Favorite["prop5"])
	assert.True(t, state.Comparison.Compared["prop3"])
	assert.False(t, state.Comparison.Compared["prop6"])
}

func TestSessionsAreIsolated(t *testing.T) {
	f := newFixture(t)

	_, err := f.storefront.AddToCart(sessionCtx("alice"), "prop1")
	require.NoError(t, err)

	cart, err := f.storefront.Cart(sessionCtx("bob"))
	require.NoError(t, err)
	assert.Equal(t, 0, cart.Count)
}

func TestRemoveFromCart(t *testing.T) {
	f := newFixture(t)
	ctx := sessionCtx("s1")

	for _, id := range []string{"prop1", "prop2", "prop3"} {
		_, err := f.storefront.AddToCart(ctx, id)
		require.NoError(t, err)
	}

	resp, err := f.storefront.RemoveFromCart(ctx, "prop2")
	require.NoError(t, err)
	assert.Equal(t, service.MsgCartRemoved, resp.Notification.Message)
	assert.Equal(t, 2, resp.Cart.Count)
	assert.Equal(t, "prop1", resp.Cart.Items[0].ID)
	assert.Equal(t, "prop3", resp.Cart.Items[1].ID)

	// removing something absent still succeeds
	resp, err = f.storefront.RemoveFromCart(ctx, "prop2")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Cart.Count)
}

func TestToggleFavorite_TwiceRestores(t *testing.T) {
	f := newFixture(t)
	ctx := sessionCtx("s1")

	_, err := f.storefront.ToggleFavorite(ctx, "prop4")
	require.NoError(t, err)
	before, err := f.storefront.Favorites(ctx)
	require.NoError(t, err)

	resp, err := f.storefront.ToggleFavorite(ctx, "prop1")
	require.NoError(t, err)
	assert.Equal(t, service.MsgFavoriteAdded, resp.Notification.Message)
	assert.True(t, resp.Favorites.Favorite["prop1"])

	resp, err = f.storefront.ToggleFavorite(ctx, "prop1")
	require.NoError(t, err)
	assert.Equal(t, service.MsgFavoriteRemoved, resp.Notification.Message)

	after, err := f.storefront.Favorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestToggleFavorite_RecommendationsExcludeState(t *testing.T) {
	f := newFixture(t)
	ctx := sessionCtx("s1")

	_, err := f.storefront.AddToCart(ctx, "prop2")
	require.NoError(t, err)

	resp, err := f.storefront.ToggleFavorite(ctx, "prop1")
	require.NoError(t, err)

	require.Len(t, resp.Recommendations, 4)
	got := ids(resp.Recommendations)
	assert.NotContains(t, got, "prop1")
	assert.NotContains(t, got, "prop2")
	for _, p := range resp.Recommendations {
		assert.True(t, strings.Contains(p.Location, "Nairobi") || strings.Contains(p.Title, "Villa"), p.ID)
	}
}

func TestToggleFavorite_UnknownProperty(t *testing.T) {
	f := newFixture(t)

	_, err := f.storefront.ToggleFavorite(sessionCtx("s1"), "prop404")
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
}

func TestComparison_CapacityAndDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := sessionCtx("s1")

	for _, id := range []string{"prop1", "prop2", "prop3"} {
		resp, err := f.storefront.AddToComparison(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, compare.MsgAdded, resp.Notification.Message)
	}

	_, err := f.storefront.AddToComparison(ctx, "prop4")
	var ce *domain.CapacityError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, compare.MsgCapacity, ce.Message)

	view, err := f.storefront.Comparison(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Toolbar.Count)
	assert.False(t, view.Compared["prop4"])

	_, err = f.storefront.RemoveFromComparison(ctx, "prop3")
	require.NoError(t, err)
	_, err = f.storefront.AddToComparison(ctx, "prop1")
	var de *domain.DuplicateError
	assert.ErrorAs(t, err, &de)
}

func TestComparison_Toggle(t *testing.T) {
	f := newFixture(t)
	ctx := sessionCtx("s1")

	resp, err := f.storefront.ToggleComparison(ctx, "prop5")
	require.NoError(t, err)
	assert.True(t, resp.Comparison.Compared["prop5"])
	assert.True(t, resp.Comparison.Toolbar.Visible)

	resp, err = f.storefront.ToggleComparison(ctx, "prop5")
	require.NoError(t, err)
	assert.Equal(t, compare.MsgRemoved, resp.Notification.Message)
	assert.False(t, resp.Comparison.Compared["prop5"])
	assert.False(t, resp.Comparison.Toolbar.Visible)
}

func TestComparison_ClearRemovesKey(t *testing.T) {
	f := newFixture(t)
	ctx := sessionCtx("s1")

	_, err := f.storefront.AddToComparison(ctx, "prop1")
	require.NoError(t, err)

	resp, err := f.storefront.ClearComparison(ctx)
	require.NoError(t, err)
	assert.Nil(t, resp.Notification)
	assert.Equal(t, 0, resp.Comparison.Toolbar.Count)

	_, err = storage.Namespace(f.store, "s1").Get(ctx, repository.KeyComparison)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestComparisonTable(t *testing.T) {
	f := newFixture(t)
	ctx := sessionCtx("s1")

	_, err := f.storefront.ComparisonTable(ctx)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, compare.MsgEmpty, ve.Message)

	_, err = f.storefront.AddToComparison(ctx, "prop3")
	require.NoError(t, err)
	_, err = f.storefront.AddToComparison(ctx, "prop1")
	require.NoError(t, err)

	table, err := f.storefront.ComparisonTable(ctx)
	require.NoError(t, err)
	require.Len(t, table.Columns, 2)
	assert.Equal(t, "prop3", table.Columns[0].ID)
	assert.Equal(t, "prop1", table.Columns[1].ID)
	assert.Equal(t, "Price", table.Rows[1].Label)
	assert.Equal(t, []string{"Ksh 120,000,000", "Ksh 85,000,000"}, table.Rows[1].Values)
}

func TestTheme(t *testing.T) {
	f := newFixture(t)
	ctx := sessionCtx("s1")

	resp, err := f.storefront.Theme(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, resp.Theme)

	resp, err = f.storefront.Theme(ctx, domain.ThemeDark)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, resp.Theme, "the client hint applies when nothing is stored")

	resp, err = f.storefront.ToggleTheme(ctx, domain.ThemeDark)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, resp.Theme)

	resp, err = f.storefront.Theme(ctx, domain.ThemeDark)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, resp.Theme, "a stored theme wins over the hint")

	resp, err = f.storefront.SetTheme(ctx, domain.ThemeDark)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, resp.Theme)

	_, err = f.storefront.SetTheme(ctx, "sepia")
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestState(t *testing.T) {
	f := newFixture(t)
	ctx := sessionCtx("s1")

	_, err := f.storefront.AddToCart(ctx, "prop2")
	require.NoError(t, err)
	_, err = f.storefront.ToggleFavorite(ctx, "prop1")
	require.NoError(t, err)
	_, err = f.storefront.AddToComparison(ctx, "prop3")
	require.NoError(t, err)

	state, err := f.storefront.State(ctx, domain.ThemeDark)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Cart.Count)
	assert.True(t, state.Favorites.Favorite["prop1"])
	assert.True(t, state.Comparison.Compared["prop3"])
	assert.Len(t, state.Comparison.Compared, 15)
	assert.Equal(t, domain.ThemeDark, state.Theme)
	assert.Nil(t, state.User)
	assert.Len(t, state.Recommendations, 4)
}
