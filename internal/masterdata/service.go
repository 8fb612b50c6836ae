// Package masterdata manages the Materials and Parties reference tables.
// Both are append-only: a material or party is never removed, only marked
// inactive, so historical rows keep resolving.
package masterdata

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/karobar-books/karobar/internal/platform/cache"
	"github.com/karobar-books/karobar/internal/schema"
	"github.com/karobar-books/karobar/internal/shared"
)

// DefaultTaxRatePct applies when a new material names no tax rate.
const DefaultTaxRatePct = 18

// CreateMaterialRequest is the payload for registering a material. Opening
// stock always starts at zero; legacy rows may carry non-zero openings but
// new ones never do.
type CreateMaterialRequest struct {
	Name         string  `json:"name" validate:"required"`
	Description  string  `json:"description"`
	TaxRatePct   float64 `json:"tax_rate_pct" validate:"gte=0,lte=100"`
	PurchaseRate float64 `json:"purchase_rate" validate:"gte=0"`
	SellingRate  float64 `json:"selling_rate" validate:"gte=0"`
	HSNCode      string  `json:"hsn_code"`
}

// CreatePartyRequest is the payload for registering a customer or supplier.
type CreatePartyRequest struct {
	Name    string `json:"name" validate:"required"`
	Role    string `json:"role" validate:"required,oneof=Customer Supplier Both"`
	GSTIN   string `json:"gstin"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
}

// RowStore is the slice of the tabular store master data needs.
type RowStore interface {
	FetchRows(ctx context.Context, readRange string) ([][]string, error)
	AppendRows(ctx context.Context, tableRange string, rows [][]string) error
}

// Service implements the master-data workflows.
type Service struct {
	store    RowStore
	logger   *slog.Logger
	cache    *cache.Cache
	validate *validator.Validate
}

// NewService builds Service.
func NewService(store RowStore, logger *slog.Logger, viewCache *cache.Cache) *Service {
	return &Service{store: store, logger: logger, cache: viewCache, validate: validator.New()}
}

// ListMaterials returns the material master sorted by name.
func (s *Service) ListMaterials(ctx context.Context) ([]schema.Material, error) {
	rows, err := s.store.FetchRows(ctx, schema.RangeMaterials)
	if err != nil {
		return nil, fmt.Errorf("fetch materials: %w", err)
	}
	materials := schema.Materials(rows)
	sort.SliceStable(materials, func(i, j int) bool {
		return materials[i].Name < materials[j].Name
	})
	return materials, nil
}

// CreateMaterial registers a material. Names must be unique
// case-insensitively; a zero tax rate takes the default.
func (s *Service) CreateMaterial(ctx context.Context, req CreateMaterialRequest) (schema.Material, error) {
	if err := s.validate.Struct(req); err != nil {
		return schema.Material{}, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	rows, err := s.store.FetchRows(ctx, schema.RangeMaterials)
	if err != nil {
		return schema.Material{}, fmt.Errorf("fetch materials: %w", err)
	}
	existing := schema.Materials(rows)
	for _, m := range existing {
		if strings.EqualFold(m.Name, req.Name) {
			return schema.Material{}, fmt.Errorf("%w: material %q already exists", shared.ErrValidation, req.Name)
		}
	}

	taxRate := req.TaxRatePct
	if taxRate == 0 {
		taxRate = DefaultTaxRatePct
	}
	material := schema.Material{
		ID:           nextID(materialIDs(existing), "MAT-"),
		Name:         req.Name,
		Description:  req.Description,
		TaxRatePct:   taxRate,
		PurchaseRate: req.PurchaseRate,
		SellingRate:  req.SellingRate,
		HSNCode:      req.HSNCode,
	}

	row := []string{
		material.ID,
		material.Name,
		material.Description,
		"0", // opening bags
		"0", // opening kg
		formatNum(material.TaxRatePct),
		formatNum(material.PurchaseRate),
		formatNum(material.SellingRate),
		material.HSNCode,
		"0", // live kg, maintained for legacy sheet formulas
		"0", // live bags
	}
	if err := s.store.AppendRows(ctx, schema.AppendMaterials, [][]string{row}); err != nil {
		return schema.Material{}, fmt.Errorf("append material: %w", err)
	}

	s.bump(ctx)
	return material, nil
}

// PartyFilter selects which parties a listing returns.
type PartyFilter string

const (
	// PartyFilterAll returns every party.
	PartyFilterAll PartyFilter = ""
	// PartyFilterSales returns parties a sale may reference.
	PartyFilterSales PartyFilter = "sales"
	// PartyFilterPurchases returns parties a purchase may reference.
	PartyFilterPurchases PartyFilter = "purchases"
)

// ParsePartyFilter validates a caller-supplied filter token.
func ParsePartyFilter(s string) (PartyFilter, error) {
	switch PartyFilter(s) {
	case PartyFilterAll, PartyFilterSales, PartyFilterPurchases:
		return PartyFilter(s), nil
	}
	return "", fmt.Errorf("%w: unknown party filter %q", shared.ErrValidation, s)
}

// ListParties returns parties sorted by name, optionally narrowed to those
// a sale or purchase picker may offer.
func (s *Service) ListParties(ctx context.Context, filter PartyFilter) ([]schema.Party, error) {
	rows, err := s.store.FetchRows(ctx, schema.RangeParties)
	if err != nil {
		return nil, fmt.Errorf("fetch parties: %w", err)
	}
	all := schema.Parties(rows)
	parties := make([]schema.Party, 0, len(all))
	for _, p := range all {
		switch filter {
		case PartyFilterSales:
			if !p.Sellable() {
				continue
			}
		case PartyFilterPurchases:
			if !p.Purchasable() {
				continue
			}
		}
		parties = append(parties, p)
	}
	sort.SliceStable(parties, func(i, j int) bool {
		return parties[i].Name < parties[j].Name
	})
	return parties, nil
}

// CreateParty registers a customer or supplier with status Active.
func (s *Service) CreateParty(ctx context.Context, req CreatePartyRequest) (schema.Party, error) {
	if err := s.validate.Struct(req); err != nil {
		return schema.Party{}, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	rows, err := s.store.FetchRows(ctx, schema.RangeParties)
	if err != nil {
		return schema.Party{}, fmt.Errorf("fetch parties: %w", err)
	}
	existing := schema.Parties(rows)
	for _, p := range existing {
		if strings.EqualFold(p.Name, req.Name) {
			return schema.Party{}, fmt.Errorf("%w: party %q already exists", shared.ErrValidation, req.Name)
		}
	}

	party := schema.Party{
		ID:      nextID(partyIDs(existing), "PTY-"),
		Name:    req.Name,
		Role:    req.Role,
		GSTIN:   req.GSTIN,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Status:  schema.PartyStatusActive,
	}

	row := []string{
		party.ID,
		party.Name,
		party.Role,
		party.GSTIN,
		party.Phone,
		party.Email,
		party.Address,
		party.Status,
	}
	if err := s.store.AppendRows(ctx, schema.AppendParties, [][]string{row}); err != nil {
		return schema.Party{}, fmt.Errorf("append party: %w", err)
	}

	s.bump(ctx)
	return party, nil
}

func (s *Service) bump(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil && s.logger != nil {
		s.logger.Warn("cache bump failed", slog.Any("error", err))
	}
}

func materialIDs(materials []schema.Material) []string {
	ids := make([]string, len(materials))
	for i, m := range materials {
		ids[i] = m.ID
	}
	return ids
}

func partyIDs(parties []schema.Party) []string {
	ids := make([]string, len(parties))
	for i, p := range parties {
		ids[i] = p.ID
	}
	return ids
}

// nextID continues a PREFIX-NNN sequence from the highest stored suffix.
func nextID(existing []string, prefix string) string {
	max := 0
	for _, id := range existing {
		suffix, ok := strings.CutPrefix(id, prefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%03d", prefix, max+1)
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
