package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nyumba-homes/storefront-api/internal/catalog"
	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	all := c.All()
	require.Len(t, all, 15)
	assert.Equal(t, "prop1", all[0].ID)
	assert.Equal(t, "prop15", all[14].ID)

	p, ok := c.Get("prop2")
	require.True(t, ok)
	assert.Equal(t, "Modern Apartment in Westlands", p.Title)
	assert.Equal(t, "Ksh 18,000,000", p.Price)
	assert.Equal(t, 3, p.Bedrooms)
	assert.Equal(t, []string{"City View", "Gym", "Mall Access", "Elevator"}, p.Features)

	_, ok = c.Get("prop99")
	assert.False(t, ok)
}

func TestAll_ReturnsCopies(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	all := c.All()
	all[0].Title = "changed"
	all[0].Features[0] = "changed"

	p, _ := c.Get("prop1")
	assert.Equal(t, "Luxury Villa in Muthaiga", p.Title)
	assert.Equal(t, "Swimming Pool", p.Features[0])
}

func TestNew_DuplicateID(t *testing.T) {
	_, err := catalog.New([]domain.Property{{ID: "a"}, {ID: "a"}})
	assert.Error(t, err)
}

func TestParse_InvalidCatalog(t *testing.T) {
	_, err := catalog.Parse([]byte(`[{"id":"x"}]`))
	assert.Error(t, err)

	_, err = catalog.Parse([]byte(`not json`))
	assert.Error(t, err)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.json")
	body := `[{"id":"p1","title":"Cottage in Nanyuki","location":"Nanyuki, Laikipia","price":"Ksh 9,500,000","bedrooms":2,"bathrooms":1,"area":"90m²","description":"","image":"images/cottage.jpg","features":["Fireplace"]}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	c, err := catalog.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = catalog.Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	ids := func(ps []domain.Property) []string {
		out := make([]string, 0, len(ps))
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Len(t, c.Search(catalog.Filter{}), 15)
	assert.Equal(t, []string{"prop3", "prop15"}, ids(c.Search(catalog.Filter{Location: "kwale"})))
	assert.Equal(t, []string{"prop1", "prop3", "prop6", "prop7", "prop13"}, ids(c.Search(catalog.Filter{Type: "villa"})))
	assert.Equal(t, []string{"prop2"}, ids(c.Search(catalog.Filter{MaxPrice: 20_000_000})))
	assert.Equal(t, []string{"prop1", "prop6"}, ids(c.Search(catalog.Filter{Location: "Nairobi", Type: "Villa"})))
	assert.Empty(t, c.Search(catalog.Filter{Location: "Kisumu"}))
}

func TestTour(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	stops, start, err := c.Tour("prop12")
	require.NoError(t, err)
	require.Len(t, stops, 3)
	assert.Equal(t, 2, start)
	assert.Equal(t, "images/apartment4.jpg", stops[start].Image)

	stops, start, err = c.Tour("prop1")
	require.NoError(t, err)
	assert.Len(t, stops, 5)
	assert.Equal(t, 0, start)

	_, _, err = c.Tour("nope")
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
}

func TestTags(t *testing.T) {
	assert.Equal(t, "Nairobi", catalog.LocationTag("Muthaiga, Nairobi"))
	assert.Equal(t, "", catalog.LocationTag("Nairobi"))
	assert.Equal(t, "Villa", catalog.TypeTag("Luxury Villa in Muthaiga"))
	assert.Equal(t, "Apartment", catalog.TypeTag("Luxury High-Rise Apartment"))
	assert.Equal(t, "Retreat", catalog.TypeTag("Exclusive Beachfront Retreat"))
}
