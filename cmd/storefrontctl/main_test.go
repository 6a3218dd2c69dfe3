package main

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/nyumba-homes/storefront-api/internal/recommend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with args and returns its output.
// Flag variables are package globals, so they are reset first.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	catalogPath = ""
	searchLocation, searchType, searchMaxPrice = "", "", 0
	recommendFavorites, recommendCart = nil, nil
	recommendSeed, recommendSize = 1, recommend.DefaultSize
	mortgagePrice, mortgageProperty = 0, ""
	mortgageDownPayment = domain.DefaultDownPaymentPercent
	mortgageRate = domain.DefaultInterestRate
	mortgageYears = domain.DefaultLoanTermYears

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCatalogList(t *testing.T) {
	out, err := execute(t, "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Luxury Villa in Muthaiga")
	assert.Contains(t, out, "prop15")
	assert.Regexp(t, regexp.MustCompile(`(?m)^ ID +\| TITLE +\| LOCATION +\| PRICE +\| BEDS +$`), out)
}

func TestTable_AlignsColumns(t *testing.T) {
	tbl := newTable("ID", "NAME")
	tbl.addRow("a", "short")
	tbl.addRow("long-id", "x")

	var out bytes.Buffer
	require.NoError(t, tbl.render(&out))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, " ID      | NAME  ", lines[0])
	assert.Equal(t, strings.Repeat("-", 17), lines[1])
	assert.Equal(t, " a       | short ", lines[2])
	assert.Equal(t, " long-id | x     ", lines[3])
	assert.NotContains(t, out.String(), "\x1b[", "plain text when not writing to a terminal")
}

func TestCatalogShow_Unknown(t *testing.T) {
	_, err := execute(t, "catalog", "show", "nope")
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
}

func TestCatalogSearch(t *testing.T) {
	out, err := execute(t, "catalog", "search", "--location", "kilifi", "--type", "Villa")
	require.NoError(t, err)
	assert.Contains(t, out, "Oceanfront Resort Villa in Malindi")
	assert.NotContains(t, out, "Muthaiga")
}

func TestCartTotal(t *testing.T) {
	out, err := execute(t, "cart", "total", "prop1", "prop2")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: Ksh 103,000,000")
}

func TestRecommend_ExcludesFavoritesAndIsReproducible(t *testing.T) {
	first, err := execute(t, "recommend", "--favorite", "prop1", "--cart", "prop6", "--seed", "7")
	require.NoError(t, err)
	second, err := execute(t, "recommend", "--favorite", "prop1", "--cart", "prop6", "--seed", "7")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotRegexp(t, regexp.MustCompile(`(?m)^ prop1 `), first)
	assert.NotRegexp(t, regexp.MustCompile(`(?m)^ prop6 `), first)
}

func TestMortgage_ZeroRate(t *testing.T) {
	out, err := execute(t, "mortgage", "--price", "1200000", "--down-payment", "0", "--rate", "0", "--years", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Ksh 10,000.00")
}
