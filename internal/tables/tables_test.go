package tables

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgemoorlf/premiumcalculator/internal/domain"
)

const dataDir = "../../data"

func openStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	store, err := Open(dataDir, opts...)
	require.NoError(t, err, "data directory should load cleanly")
	return store
}

func TestOpenLoadsAllArtifacts(t *testing.T) {
	snap := openStore(t).Snapshot()

	assert.NotEmpty(t, snap.MortalityVersion, "mortality version should be set")
	assert.NotEmpty(t, snap.MorbidityVersion, "morbidity version should be set")
	assert.NotEmpty(t, snap.RulesVersion, "rules version should be set")
	assert.NotEmpty(t, snap.ProductsVersion, "products version should be set")
	assert.True(t, snap.PricingRate.Equal(decimal.NewFromFloat(0.035)),
		"standard discount rate should be 3.5%%, got %s", snap.PricingRate)
	assert.Equal(t, 100, snap.MaxTableAge)
}

func TestOpenMissingDirectory(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)

	var confErr *domain.ConfigurationError
	assert.True(t, errors.As(err, &confErr), "missing data should surface as ConfigurationError, got %T", err)
}

func TestLookupMortalityRoundsDownToLowerBand(t *testing.T) {
	snap := openStore(t).Snapshot()

	at35, err := snap.LookupMortality(35, domain.GenderMale)
	require.NoError(t, err)
	at37, err := snap.LookupMortality(37, domain.GenderMale)
	require.NoError(t, err)
	at39, err := snap.LookupMortality(39, domain.GenderMale)
	require.NoError(t, err)

	assert.True(t, at37.Equal(at35), "age 37 should resolve to the 35 band: %s vs %s", at37, at35)
	assert.True(t, at39.Equal(at35), "age 39 should resolve to the 35 band: %s vs %s", at39, at35)
}

func TestLookupMortalityNearestMode(t *testing.T) {
	snap := openStore(t, WithAgeBandRounding(RoundNearest)).Snapshot()

	at38, err := snap.LookupMortality(38, domain.GenderMale)
	require.NoError(t, err)
	at40, err := snap.LookupMortality(40, domain.GenderMale)
	require.NoError(t, err)

	assert.True(t, at38.Equal(at40), "age 38 should resolve to the nearest band 40: %s vs %s", at38, at40)
}

func TestLookupMortalityClampsBeyondTableMaximum(t *testing.T) {
	snap := openStore(t).Snapshot()

	atMax, err := snap.LookupMortality(snap.MaxTableAge, domain.GenderFemale)
	require.NoError(t, err)
	beyond, err := snap.LookupMortality(snap.MaxTableAge+7, domain.GenderFemale)
	require.NoError(t, err)

	assert.True(t, beyond.Equal(atMax), "ages beyond the table maximum should use the maximum band")
}

func TestLookupMortalityBelowLowestBandFails(t *testing.T) {
	snap := openStore(t).Snapshot()

	_, err := snap.LookupMortality(10, domain.GenderMale)
	require.Error(t, err)

	var notFound *domain.NotFoundError
	assert.True(t, errors.As(err, &notFound), "below-table age should be NotFoundError, got %T", err)
}

func TestMortalityRatesAreMonotone(t *testing.T) {
	snap := openStore(t).Snapshot()

	for _, gender := range []domain.Gender{domain.GenderMale, domain.GenderFemale} {
		prev := decimal.Zero
		for _, band := range snap.MortalityBands() {
			rate, err := snap.LookupMortality(band, gender)
			require.NoError(t, err)
			assert.True(t, rate.GreaterThanOrEqual(prev),
				"mortality should not decrease with age: band %d %s", band, gender)
			prev = rate
		}
	}
}

func TestLookupMorbidityByOccupationClass(t *testing.T) {
	snap := openStore(t).Snapshot()

	class1, err := snap.LookupMorbidity(1, 40, domain.GenderMale)
	require.NoError(t, err)
	class5, err := snap.LookupMorbidity(5, 40, domain.GenderMale)
	require.NoError(t, err)

	assert.True(t, class5.GreaterThan(class1),
		"hazardous occupations should carry higher incidence: %s vs %s", class5, class1)

	_, err = snap.LookupMorbidity(9, 40, domain.GenderMale)
	var notFound *domain.NotFoundError
	assert.True(t, errors.As(err, &notFound), "unknown occupation class should be NotFoundError")
}

func TestLookupConditionRule(t *testing.T) {
	snap := openStore(t).Snapshot()

	rule, err := snap.LookupConditionRule("hypertension_controlled")
	require.NoError(t, err)
	assert.True(t, rule.Multiplier.Equal(decimal.NewFromFloat(1.25)))
	assert.True(t, rule.Insurable)

	active, err := snap.LookupConditionRule("cancer_active")
	require.NoError(t, err)
	assert.False(t, active.Insurable, "active cancer should not be insurable")

	_, err = snap.LookupConditionRule("nonexistent_condition")
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.True(t, errors.As(err, &notFound),
		"missing rule codes must fail loudly, never default to neutral")
}

func TestWaitingPeriodSelection(t *testing.T) {
	snap := openStore(t).Snapshot()

	tests := []struct {
		days     int
		expected string
	}{
		{30, "30_days"},
		{45, "60_days"},
		{90, "90_days"},
		{120, "180_days"},
		{500, "365_days"},
	}
	for _, tt := range tests {
		wp, err := snap.WaitingPeriod(tt.days)
		require.NoError(t, err, "waiting period %d days", tt.days)
		assert.Equal(t, tt.expected, wp.Name, "waiting period for %d days", tt.days)
	}
}

func TestLapseRateSelectUltimate(t *testing.T) {
	snap := openStore(t).Snapshot()

	year2 := snap.LapseRate(2)
	year10 := snap.LapseRate(10)

	assert.True(t, year2.Equal(decimal.NewFromFloat(0.07)), "select-period lapse, got %s", year2)
	assert.True(t, year10.Equal(decimal.NewFromFloat(0.04)), "ultimate lapse, got %s", year10)
}

func TestProductLookup(t *testing.T) {
	snap := openStore(t).Snapshot()

	product, err := snap.Product(domain.ProductTermLife)
	require.NoError(t, err)
	assert.Equal(t, "Term Life Insurance", product.Name)
	assert.True(t, product.OffersTerm(20))
	assert.False(t, product.OffersTerm(25))

	assert.Len(t, snap.Products(), 4, "all four products should be defined")
}

func copyDataDir(t *testing.T, dst string) {
	t.Helper()
	entries, err := os.ReadDir(dataDir)
	require.NoError(t, err)
	for _, entry := range entries {
		data, err := os.ReadFile(filepath.Join(dataDir, entry.Name()))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dst, entry.Name()), data, 0o644))
	}
}

func TestReloadKeepsServingOldSnapshotOnFailure(t *testing.T) {
	dir := t.TempDir()
	copyDataDir(t, dir)

	store, err := Open(dir)
	require.NoError(t, err)
	before := store.Snapshot()

	// Corrupt one artifact; the reload must fail without disturbing the
	// snapshot in service.
	require.NoError(t, os.WriteFile(filepath.Join(dir, MortalityFile), []byte("{not json"), 0o644))
	require.Error(t, store.Reload())
	assert.Same(t, before, store.Snapshot(), "failed reload must leave the old snapshot in place")

	copyDataDir(t, dir)
	require.NoError(t, store.Reload())
	assert.NotSame(t, before, store.Snapshot(), "successful reload should swap in a fresh snapshot")
}

func TestLoadRejectsNonMonotoneMortality(t *testing.T) {
	dir := t.TempDir()
	copyDataDir(t, dir)

	raw, err := os.ReadFile(filepath.Join(dir, MortalityFile))
	require.NoError(t, err)
	// Push the age-80 male rate below the age-75 rate.
	mangled := strings.Replace(string(raw), `"80": 0.0601`, `"80": 0.0001`, 1)
	require.NotEqual(t, string(raw), mangled, "expected the age-80 male rate in the artifact")
	require.NoError(t, os.WriteFile(filepath.Join(dir, MortalityFile), []byte(mangled), 0o644))

	_, err = Open(dir)
	require.Error(t, err)
	var confErr *domain.ConfigurationError
	assert.True(t, errors.As(err, &confErr), "non-monotone mortality should fail load")
}
