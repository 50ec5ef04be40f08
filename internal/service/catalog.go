package service

import (
	"context"
	"errors"
	"strings"

	"github.com/4lovek5346534/git-Supreme-Cofe/internal/model"
	"github.com/4lovek5346534/git-Supreme-Cofe/internal/store"
	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/logger"
	"github.com/4lovek5346534/git-Supreme-Cofe/prometheus"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogService serves the product catalog and the admin product tools
type CatalogService struct {
	store     store.Store
	questions *QuestionService
}

func NewCatalogService(st store.Store, questions *QuestionService) *CatalogService {
	return &CatalogService{store: st, questions: questions}
}

// ProductDetail is a product together with its question thread
type ProductDetail struct {
	Product   model.Product  `json:"product"`
	Questions []QuestionView `json:"questions"`
}

func (s *CatalogService) List(ctx context.Context) ([]model.Product, error) {
	return s.store.Products().List(ctx)
}

func (s *CatalogService) Origins(ctx context.Context) ([]string, error) {
	return s.store.Products().Origins(ctx)
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*model.Product, error) {
	p, err := s.store.Products().Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("product")
	}
	return p, err
}

// Lookup finds a product by ID and requires its name to match as well
func (s *CatalogService) Lookup(ctx context.Context, id uint, name string) (*model.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Name != name {
		return nil, notFound("product")
	}
	return p, nil
}

// Detail looks the product up, counts the view and loads its questions
func (s *CatalogService) Detail(ctx context.Context, id uint, name string) (*ProductDetail, error) {
	p, err := s.Lookup(ctx, id, name)
	if err != nil {
		return nil, err
	}

	if err := s.store.Products().IncrementPopularity(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("product")
		}
		return nil, err
	}
	p.Popularity++
	prometheus.RecordProductView(id)

	questions, err := s.questions.Thread(ctx, id)
	if err != nil {
		// the product page is still useful without its questions
		logger.FromCtx(ctx).Warn("Failed to load question thread", zap.Uint("product_id", id), zap.Error(err))
		questions = []QuestionView{}
	}

	return &ProductDetail{Product: *p, Questions: questions}, nil
}

// Search matches text against product names, ignoring case
func (s *CatalogService) Search(ctx context.Context, text string) ([]model.Product, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return s.List(ctx)
	}
	return s.store.Products().Find(ctx, store.ProductFilter{Text: text})
}

func (s *CatalogService) Filter(ctx context.Context, filter store.ProductFilter) ([]model.Product, error) {
	return s.store.Products().Find(ctx, filter)
}

// ProductInput carries every field of a new product
type ProductInput struct {
	Name        string
	SupplyPrice decimal.Decimal
	SalePrice   decimal.Decimal
	Stock       int
	NetWeight   float64
	Type        string
	Origin      string
	Composition string
	ImgPath     string
	Info        string
}

// ProductPatch changes only the fields that are set
type ProductPatch struct {
	Name        *string
	SupplyPrice *decimal.Decimal
	SalePrice   *decimal.Decimal
	Stock       *int
	NetWeight   *float64
	Type        *string
	Origin      *string
	Composition *string
	ImgPath     *string
	Info        *string
}

// RestockInput adds Quantity units and optionally reprices the product
type RestockInput struct {
	Quantity       int
	NewSupplyPrice *decimal.Decimal
	NewSalePrice   *decimal.Decimal
}

func validateProduct(p *model.Product) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return invalid("name is required")
	case p.SupplyPrice.IsNegative():
		return invalid("supply price must not be negative")
	case p.SalePrice.IsNegative():
		return invalid("sale price must not be negative")
	case p.Stock < 0:
		return invalid("quantity must not be negative")
	case p.NetWeight <= 0:
		return invalid("net weight must be positive")
	case !model.ValidType(p.Type):
		return invalid("type must be %q or %q", model.TypeBean, model.TypeGround)
	case !model.ValidComposition(p.Composition):
		return invalid("composition must be %q or %q", model.CompositionArabica, model.CompositionRobusta)
	case strings.TrimSpace(p.Origin) == "":
		return invalid("origin is required")
	}
	return nil
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*model.Product, error) {
	p := &model.Product{
		Name:        strings.TrimSpace(in.Name),
		SupplyPrice: in.SupplyPrice,
		SalePrice:   in.SalePrice,
		Stock:       in.Stock,
		NetWeight:   in.NetWeight,
		Type:        in.Type,
		Origin:      strings.TrimSpace(in.Origin),
		Composition: in.Composition,
		ImgPath:     in.ImgPath,
		Info:        in.Info,
		Popularity:  1,
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := s.store.Products().Create(ctx, p); err != nil {
		return nil, err
	}

	prometheus.RecordProductOperation("create")
	prometheus.UpdateProductInventory(p.ID, p.Stock)
	return p, nil
}

func (s *CatalogService) Update(ctx context.Context, id uint, patch ProductPatch) (*model.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.SupplyPrice != nil {
		p.SupplyPrice = *patch.SupplyPrice
	}
	if patch.SalePrice != nil {
		p.SalePrice = *patch.SalePrice
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.NetWeight != nil {
		p.NetWeight = *patch.NetWeight
	}
	if patch.Type != nil {
		p.Type = *patch.Type
	}
	if patch.Origin != nil {
		p.Origin = strings.TrimSpace(*patch.Origin)
	}
	if patch.Composition != nil {
		p.Composition = *patch.Composition
	}
	if patch.ImgPath != nil {
		p.ImgPath = *patch.ImgPath
	}
	if patch.Info != nil {
		p.Info = *patch.Info
	}

	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := s.store.Products().Update(ctx, p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("product")
		}
		return nil, err
	}

	prometheus.RecordProductOperation("update")
	prometheus.UpdateProductInventory(p.ID, p.Stock)
	return p, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	if err := s.store.Products().Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("product")
		}
		return err
	}

	prometheus.RecordProductOperation("delete")
	prometheus.UpdateProductInventory(id, 0)
	return nil
}

// Restock adds stock and applies new prices in one transaction
func (s *CatalogService) Restock(ctx context.Context, id uint, in RestockInput) (*model.Product, error) {
	if in.Quantity < 0 {
		return nil, invalid("quantity must not be negative")
	}
	if in.Quantity == 0 && in.NewSupplyPrice == nil && in.NewSalePrice == nil {
		return nil, invalid("nothing to update")
	}
	if in.NewSupplyPrice != nil && in.NewSupplyPrice.IsNegative() {
		return nil, invalid("supply price must not be negative")
	}
	if in.NewSalePrice != nil && in.NewSalePrice.IsNegative() {
		return nil, invalid("sale price must not be negative")
	}

	var restocked *model.Product
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		locked, err := tx.Products().LockMany(ctx, []uint{id})
		if err != nil {
			return err
		}
		p, ok := locked[id]
		if !ok {
			return notFound("product")
		}

		p.Stock += in.Quantity
		if in.NewSupplyPrice != nil {
			p.SupplyPrice = *in.NewSupplyPrice
		}
		if in.NewSalePrice != nil {
			p.SalePrice = *in.NewSalePrice
		}
		if err := tx.Products().Update(ctx, &p); err != nil {
			return err
		}
		restocked = &p
		return nil
	})
	if err != nil {
		return nil, err
	}

	prometheus.RecordProductOperation("restock")
	prometheus.UpdateProductInventory(restocked.ID, restocked.Stock)
	logger.FromCtx(ctx).Info("Product restocked",
		zap.Uint("product_id", restocked.ID),
		zap.Int("added", in.Quantity),
		zap.Int("stock", restocked.Stock),
	)
	return restocked, nil
}
