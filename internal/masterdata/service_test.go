package masterdata

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/karobar-books/karobar/internal/schema"
	"github.com/karobar-books/karobar/internal/shared"
)

type fakeStore struct {
	tables  map[string][][]string
	appends map[string][][]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tables: map[string][][]string{
			schema.RangeMaterials: {
				{"MAT-001", "Kraft Paper", "", "0", "0", "18", "60", "0", "4804"},
			},
			schema.RangeParties: {
				{"PTY-001", "Sharma Traders", "Customer", "", "", "", "", "Active"},
				{"PTY-002", "Ganga Mills", "Supplier", "", "", "", "", "Active"},
				{"PTY-003", "Verma & Sons", "Both", "", "", "", "", "Active"},
				{"PTY-004", "Closed Depot", "Customer", "", "", "", "", "Inactive"},
			},
		},
		appends: map[string][][]string{},
	}
}

func (f *fakeStore) FetchRows(_ context.Context, readRange string) ([][]string, error) {
	return f.tables[readRange], nil
}

func (f *fakeStore) AppendRows(_ context.Context, tableRange string, rows [][]string) error {
	f.appends[tableRange] = append(f.appends[tableRange], rows...)
	return nil
}

func newTestService(store *fakeStore) *Service {
	return NewService(store, slog.Default(), nil)
}

func TestCreateMaterialDefaults(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	mat, err := svc.CreateMaterial(context.Background(), CreateMaterialRequest{
		Name:        "Duplex Board",
		SellingRate: 75,
	})
	require.NoError(t, err)
	require.Equal(t, "MAT-002", mat.ID)
	require.InDelta(t, float64(DefaultTaxRatePct), mat.TaxRatePct, 1e-9)

	rows := store.appends[schema.AppendMaterials]
	require.Len(t, rows, 1)
	require.Equal(t, "0", rows[0][schema.MatColOpeningBags])
	require.Equal(t, "0", rows[0][schema.MatColOpeningKg])
	require.Equal(t, "18", rows[0][schema.MatColTaxRatePct])
}

func TestCreateMaterialRejectsDuplicateName(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.CreateMaterial(context.Background(), CreateMaterialRequest{Name: "kraft paper"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreatePartyActiveByDefault(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	party, err := svc.CreateParty(context.Background(), CreatePartyRequest{
		Name: "Yamuna Pulp",
		Role: "Supplier",
	})
	require.NoError(t, err)
	require.Equal(t, "PTY-005", party.ID)
	require.Equal(t, schema.PartyStatusActive, party.Status)

	rows := store.appends[schema.AppendParties]
	require.Len(t, rows, 1)
	require.Equal(t, "Active", rows[0][schema.PartyColStatus])
}

func TestCreatePartyRejectsBadRole(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.CreateParty(context.Background(), CreatePartyRequest{
		Name: "New Depot",
		Role: "Vendor",
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestListPartiesFilters(t *testing.T) {
	svc := newTestService(newFakeStore())
	ctx := context.Background()

	all, err := svc.ListParties(ctx, PartyFilterAll)
	require.NoError(t, err)
	require.Len(t, all, 4)

	// Sales pickers exclude suppliers and inactive parties.
	sellable, err := svc.ListParties(ctx, PartyFilterSales)
	require.NoError(t, err)
	names := partyNames(sellable)
	require.Equal(t, []string{"Sharma Traders", "Verma & Sons"}, names)

	// Purchase pickers exclude customers and inactive parties.
	purchasable, err := svc.ListParties(ctx, PartyFilterPurchases)
	require.NoError(t, err)
	require.Equal(t, []string{"Ganga Mills", "Verma & Sons"}, partyNames(purchasable))
}

func TestParsePartyFilter(t *testing.T) {
	f, err := ParsePartyFilter("")
	require.NoError(t, err)
	require.Equal(t, PartyFilterAll, f)

	_, err = ParsePartyFilter("vendors")
	require.ErrorIs(t, err, shared.ErrValidation)
}

func partyNames(parties []schema.Party) []string {
	names := make([]string, len(parties))
	for i, p := range parties {
		names[i] = p.Name
	}
	return names
}
