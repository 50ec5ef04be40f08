package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/4lovek5346534/git-Supreme-Cofe/internal/model"
	"github.com/4lovek5346534/git-Supreme-Cofe/prometheus"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on top of PostgreSQL through gorm
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open gorm connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Products() Products { return &gormProducts{db: s.db} }
func (s *GormStore) Carts() Carts       { return &gormCarts{db: s.db} }
func (s *GormStore) Orders() Orders     { return &gormOrders{db: s.db} }
func (s *GormStore) Users() Users       { return &gormUsers{db: s.db} }

// Transaction runs fn inside a database transaction
func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	defer prometheus.TrackDBOperation("transaction")(time.Now())
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type gormProducts struct {
	db *gorm.DB
}

func (r *gormProducts) List(ctx context.Context) ([]model.Product, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var products []model.Product
	err := r.db.WithContext(ctx).Order("id").Find(&products).Error
	return products, translate(err)
}

func (r *gormProducts) Find(ctx context.Context, f ProductFilter) ([]model.Product, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	query := r.db.WithContext(ctx).Model(&model.Product{})

	if f.Text != "" {
		query = query.Where("name ILIKE ?", "%"+likeEscaper.Replace(f.Text)+"%")
	}
	if f.MinPrice != nil {
		query = query.Where("sale_price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("sale_price <= ?", *f.MaxPrice)
	}
	if f.MinWeight != nil {
		query = query.Where("net_weight >= ?", *f.MinWeight)
	}
	if f.MaxWeight != nil {
		query = query.Where("net_weight <= ?", *f.MaxWeight)
	}
	if len(f.Origins) > 0 {
		query = query.Where("origin IN ?", f.Origins)
	}
	if len(f.Types) > 0 {
		query = query.Where("type IN ?", f.Types)
	}
	if len(f.Compositions) > 0 {
		query = query.Where("composition IN ?", f.Compositions)
	}

	var products []model.Product
	err := query.Order("id").Find(&products).Error
	return products, translate(err)
}

func (r *gormProducts) Origins(ctx context.Context) ([]string, error) {
	var origins []string
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Distinct().Order("origin").Pluck("origin", &origins).Error
	return origins, translate(err)
}

func (r *gormProducts) Get(ctx context.Context, id uint) (*model.Product, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *gormProducts) GetMany(ctx context.Context, ids []uint) (map[uint]model.Product, error) {
	return r.getMany(r.db.WithContext(ctx), ids)
}

func (r *gormProducts) LockMany(ctx context.Context, ids []uint) (map[uint]model.Product, error) {
	// rows are locked in id order so two placements over the same products
	// cannot deadlock each other
	return r.getMany(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Order("id"), ids)
}

func (r *gormProducts) getMany(db *gorm.DB, ids []uint) (map[uint]model.Product, error) {
	found := make(map[uint]model.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	var products []model.Product
	if err := db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, translate(err)
	}
	for _, p := range products {
		found[p.ID] = p
	}
	return found, nil
}

func (r *gormProducts) Create(ctx context.Context, p *model.Product) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *gormProducts) Update(ctx context.Context, p *model.Product) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	// popularity is left alone so that concurrent detail views are never lost
	result := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":         p.Name,
		"supply_price": p.SupplyPrice,
		"sale_price":   p.SalePrice,
		"stock":        p.Stock,
		"net_weight":   p.NetWeight,
		"type":         p.Type,
		"origin":       p.Origin,
		"composition":  p.Composition,
		"img_path":     p.ImgPath,
		"info":         p.Info,
	})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormProducts) Delete(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormProducts) IncrementPopularity(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).
		UpdateColumn("popularity", gorm.Expr("popularity + ?", 1))
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormProducts) DecrementStock(ctx context.Context, id uint, qty int) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	result := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

type gormCarts struct {
	db *gorm.DB
}

func (r *gormCarts) GetByUser(ctx context.Context, userID uint) (*model.Cart, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

func (r *gormCarts) LockByUser(ctx context.Context, userID uint) (*model.Cart, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

func (r *gormCarts) Create(ctx context.Context, cart *model.Cart) error {
	return translate(r.db.WithContext(ctx).Create(cart).Error)
}

// Ensure leaves an existing cart alone; a unique violation would abort the transaction
func (r *gormCarts) Ensure(ctx context.Context, userID uint) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return translate(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&model.Cart{UserID: userID}).Error)
}

func (r *gormCarts) SaveItem(ctx context.Context, item *model.CartItem) error {
	return translate(r.db.WithContext(ctx).Save(item).Error)
}

func (r *gormCarts) DeleteItem(ctx context.Context, cartID, itemID uint) error {
	result := r.db.WithContext(ctx).Where("cart_id = ? AND id = ?", cartID, itemID).Delete(&model.CartItem{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormCarts) Clear(ctx context.Context, cartID uint) error {
	return translate(r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error)
}

type gormOrders struct {
	db *gorm.DB
}

func (r *gormOrders) Create(ctx context.Context, order *model.Order) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return translate(r.db.WithContext(ctx).Create(order).Error)
}

func (r *gormOrders) Get(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *gormOrders) List(ctx context.Context) ([]model.Order, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var orders []model.Order
	err := r.db.WithContext(ctx).Preload("Items").Order("order_date DESC").Find(&orders).Error
	return orders, translate(err)
}

func (r *gormOrders) ListByUser(ctx context.Context, userID uint) ([]model.Order, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var orders []model.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Find(&orders).Error
	return orders, translate(err)
}

func (r *gormOrders) UpdateStatus(ctx context.Context, id uint, status model.OrderStatus) error {
	result := r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type gormUsers struct {
	db *gorm.DB
}

func (r *gormUsers) Create(ctx context.Context, user *model.User) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *gormUsers) Get(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *gormUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *gormUsers) GetMany(ctx context.Context, ids []uint) (map[uint]model.User, error) {
	found := make(map[uint]model.User, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	var users []model.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	for _, u := range users {
		found[u.ID] = u
	}
	return found, nil
}

func (r *gormUsers) Update(ctx context.Context, user *model.User) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"name":     user.Name,
		"email":    user.Email,
		"sex":      user.Sex,
		"img_path": user.ImgPath,
	})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
