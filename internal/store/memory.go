package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/4lovek5346534/git-Supreme-Cofe/internal/model"
)

type memoryData struct {
	products map[uint]model.Product
	carts    map[uint]model.Cart
	orders   map[uint]model.Order
	users    map[uint]model.User
	seq      map[string]uint
}

func newMemoryData() *memoryData {
	return &memoryData{
		products: make(map[uint]model.Product),
		carts:    make(map[uint]model.Cart),
		orders:   make(map[uint]model.Order),
		users:    make(map[uint]model.User),
		seq:      make(map[string]uint),
	}
}

func (d *memoryData) next(table string) uint {
	d.seq[table]++
	return d.seq[table]
}

func (d *memoryData) clone() *memoryData {
	c := newMemoryData()
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.carts {
		c.carts[k] = cloneCart(v)
	}
	for k, v := range d.orders {
		c.orders[k] = cloneOrder(v)
	}
	for k, v := range d.users {
		c.users[k] = cloneUser(v)
	}
	for k, v := range d.seq {
		c.seq[k] = v
	}
	return c
}

func cloneCart(c model.Cart) model.Cart {
	c.Items = append([]model.CartItem(nil), c.Items...)
	return c
}

func cloneOrder(o model.Order) model.Order {
	o.Items = append([]model.OrderItem(nil), o.Items...)
	return o
}

func cloneUser(u model.User) model.User {
	u.Roles = append([]string(nil), u.Roles...)
	return u
}

// MemoryStore implements Store in process memory. Transactions are serialized
// and run against a private copy that replaces the live data only on success.
type MemoryStore struct {
	mu   *sync.Mutex
	data *memoryData
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{mu: &sync.Mutex{}, data: newMemoryData()}
}

func (s *MemoryStore) Products() Products { return memoryProducts{s} }
func (s *MemoryStore) Carts() Carts       { return memoryCarts{s} }
func (s *MemoryStore) Orders() Orders     { return memoryOrders{s} }
func (s *MemoryStore) Users() Users       { return memoryUsers{s} }

func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &MemoryStore{mu: &sync.Mutex{}, data: s.data.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	s.data = tx.data
	return nil
}

type memoryProducts struct{ s *MemoryStore }

func (r memoryProducts) List(ctx context.Context) ([]model.Product, error) {
	return r.Find(ctx, ProductFilter{})
}

func (r memoryProducts) Find(_ context.Context, f ProductFilter) ([]model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	text := strings.ToLower(f.Text)
	products := make([]model.Product, 0, len(r.s.data.products))
	for _, p := range r.s.data.products {
		if text != "" && !strings.Contains(strings.ToLower(p.Name), text) {
			continue
		}
		if f.MinPrice != nil && p.SalePrice.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && p.SalePrice.GreaterThan(*f.MaxPrice) {
			continue
		}
		if f.MinWeight != nil && p.NetWeight < *f.MinWeight {
			continue
		}
		if f.MaxWeight != nil && p.NetWeight > *f.MaxWeight {
			continue
		}
		if len(f.Origins) > 0 && !contains(f.Origins, p.Origin) {
			continue
		}
		if len(f.Types) > 0 && !contains(f.Types, p.Type) {
			continue
		}
		if len(f.Compositions) > 0 && !contains(f.Compositions, p.Composition) {
			continue
		}
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func (r memoryProducts) Origins(_ context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seen := make(map[string]bool)
	origins := []string{}
	for _, p := range r.s.data.products {
		if !seen[p.Origin] {
			seen[p.Origin] = true
			origins = append(origins, p.Origin)
		}
	}
	sort.Strings(origins)
	return origins, nil
}

func (r memoryProducts) Get(_ context.Context, id uint) (*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.data.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r memoryProducts) GetMany(_ context.Context, ids []uint) (map[uint]model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	found := make(map[uint]model.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.s.data.products[id]; ok {
			found[id] = p
		}
	}
	return found, nil
}

// LockMany needs no extra locking here since transactions are already serialized
func (r memoryProducts) LockMany(ctx context.Context, ids []uint) (map[uint]model.Product, error) {
	return r.GetMany(ctx, ids)
}

func (r memoryProducts) Create(_ context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	p.ID = r.s.data.next("products")
	if p.Popularity == 0 {
		p.Popularity = 1
	}
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.data.products[p.ID] = *p
	return nil
}

func (r memoryProducts) Update(_ context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.data.products[p.ID]
	if !ok {
		return ErrNotFound
	}
	updated := *p
	updated.Popularity = current.Popularity
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = time.Now()
	r.s.data.products[p.ID] = updated
	return nil
}

func (r memoryProducts) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.data.products, id)
	return nil
}

func (r memoryProducts) IncrementPopularity(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.data.products[id]
	if !ok {
		return ErrNotFound
	}
	p.Popularity++
	r.s.data.products[id] = p
	return nil
}

func (r memoryProducts) DecrementStock(_ context.Context, id uint, qty int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.data.products[id]
	if !ok || p.Stock < qty {
		return ErrInsufficientStock
	}
	p.Stock -= qty
	p.UpdatedAt = time.Now()
	r.s.data.products[id] = p
	return nil
}

type memoryCarts struct{ s *MemoryStore }

func (r memoryCarts) GetByUser(_ context.Context, userID uint) (*model.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.data.carts {
		if c.UserID == userID {
			cart := cloneCart(c)
			return &cart, nil
		}
	}
	return nil, ErrNotFound
}

// LockByUser needs no extra lock here, transactions already run one at a time
func (r memoryCarts) LockByUser(ctx context.Context, userID uint) (*model.Cart, error) {
	return r.GetByUser(ctx, userID)
}

func (r memoryCarts) Ensure(ctx context.Context, userID uint) error {
	err := r.Create(ctx, &model.Cart{UserID: userID})
	if errors.Is(err, ErrDuplicate) {
		return nil
	}
	return err
}

func (r memoryCarts) Create(_ context.Context, cart *model.Cart) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.data.carts {
		if c.UserID == cart.UserID {
			return ErrDuplicate
		}
	}
	now := time.Now()
	cart.ID = r.s.data.next("carts")
	cart.CreatedAt, cart.UpdatedAt = now, now
	for i := range cart.Items {
		cart.Items[i].ID = r.s.data.next("cart_items")
		cart.Items[i].CartID = cart.ID
	}
	r.s.data.carts[cart.ID] = cloneCart(*cart)
	return nil
}

func (r memoryCarts) SaveItem(_ context.Context, item *model.CartItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cart, ok := r.s.data.carts[item.CartID]
	if !ok {
		return ErrNotFound
	}
	if item.ID == 0 {
		item.ID = r.s.data.next("cart_items")
		item.CreatedAt = time.Now()
	}

	replaced := false
	for i := range cart.Items {
		if cart.Items[i].ID == item.ID {
			cart.Items[i] = *item
			replaced = true
			break
		}
	}
	if !replaced {
		cart.Items = append(cart.Items, *item)
	}
	cart.UpdatedAt = time.Now()
	r.s.data.carts[cart.ID] = cart
	return nil
}

func (r memoryCarts) DeleteItem(_ context.Context, cartID, itemID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cart, ok := r.s.data.carts[cartID]
	if !ok {
		return ErrNotFound
	}
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items = append(cart.Items[:i:i], cart.Items[i+1:]...)
			r.s.data.carts[cartID] = cart
			return nil
		}
	}
	return ErrNotFound
}

func (r memoryCarts) Clear(_ context.Context, cartID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cart, ok := r.s.data.carts[cartID]
	if !ok {
		return nil
	}
	cart.Items = nil
	r.s.data.carts[cartID] = cart
	return nil
}

type memoryOrders struct{ s *MemoryStore }

func (r memoryOrders) Create(_ context.Context, order *model.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order.ID = r.s.data.next("orders")
	if order.Status == "" {
		order.Status = model.OrderStatusCreated
	}
	if order.OrderDate.IsZero() {
		order.OrderDate = time.Now()
	}
	order.UpdatedAt = order.OrderDate
	for i := range order.Items {
		order.Items[i].ID = r.s.data.next("order_items")
		order.Items[i].OrderID = order.ID
	}
	r.s.data.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (r memoryOrders) Get(_ context.Context, id uint) (*model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.data.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	o = cloneOrder(o)
	return &o, nil
}

func (r memoryOrders) List(_ context.Context) ([]model.Order, error) {
	return r.collect(func(model.Order) bool { return true }), nil
}

func (r memoryOrders) ListByUser(_ context.Context, userID uint) ([]model.Order, error) {
	return r.collect(func(o model.Order) bool { return o.UserID == userID }), nil
}

func (r memoryOrders) collect(keep func(model.Order) bool) []model.Order {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	orders := []model.Order{}
	for _, o := range r.s.data.orders {
		if keep(o) {
			orders = append(orders, cloneOrder(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].OrderDate.Equal(orders[j].OrderDate) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})
	return orders
}

func (r memoryOrders) UpdateStatus(_ context.Context, id uint, status model.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.data.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	r.s.data.orders[id] = o
	return nil
}

type memoryUsers struct{ s *MemoryStore }

func (r memoryUsers) emailTaken(email string, except uint) bool {
	for _, u := range r.s.data.users {
		if u.ID != except && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r memoryUsers) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTaken(user.Email, 0) {
		return ErrDuplicate
	}
	now := time.Now()
	user.ID = r.s.data.next("users")
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.data.users[user.ID] = cloneUser(*user)
	return nil
}

func (r memoryUsers) Get(_ context.Context, id uint) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.data.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u = cloneUser(u)
	return &u, nil
}

func (r memoryUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.data.users {
		if strings.EqualFold(u.Email, email) {
			u = cloneUser(u)
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r memoryUsers) GetMany(_ context.Context, ids []uint) (map[uint]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	found := make(map[uint]model.User, len(ids))
	for _, id := range ids {
		if u, ok := r.s.data.users[id]; ok {
			found[id] = cloneUser(u)
		}
	}
	return found, nil
}

func (r memoryUsers) Update(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.data.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return ErrDuplicate
	}
	current.Name = user.Name
	current.Email = user.Email
	current.Sex = user.Sex
	current.ImgPath = user.ImgPath
	current.UpdatedAt = time.Now()
	r.s.data.users[user.ID] = current
	return nil
}

// MemoryQuestions implements Questions in process memory
type MemoryQuestions struct {
	mu      sync.RWMutex
	threads map[uint]model.QuestionThread
}

func NewMemoryQuestions() *MemoryQuestions {
	return &MemoryQuestions{threads: make(map[uint]model.QuestionThread)}
}

func (q *MemoryQuestions) ThreadFor(_ context.Context, productID uint) (*model.QuestionThread, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	thread, ok := q.threads[productID]
	if !ok {
		return &model.QuestionThread{ProductID: productID, Items: []model.Question{}}, nil
	}
	thread.Items = append([]model.Question(nil), thread.Items...)
	return &thread, nil
}

func (q *MemoryQuestions) Append(_ context.Context, productID uint, question model.Question) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	thread := q.threads[productID]
	thread.ProductID = productID
	thread.Items = append(thread.Items, question)
	q.threads[productID] = thread
	return nil
}
