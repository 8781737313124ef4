package Screens

import (
	"context"
	"errors"
	"sync"

	"Prapatti/Apis"
	"Prapatti/Forms"
	"Prapatti/Models"
)

type Mode string

const (
	Viewing    Mode = "viewing"
	Editing    Mode = "editing"
	Submitting Mode = "submitting"
)

var (
	ErrInvalid  = errors.New("form has errors")
	ErrNotFound = errors.New("record not found")
)

// Backend is the REST surface a screen drives.
type Backend[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, payload any) error
	Update(ctx context.Context, id string, payload any) error
	Delete(ctx context.Context, id string) error
}

// Form is anything that turns into a request body once it validated.
type Form interface {
	Payload() any
}

// Accessors expose the record fields the filters look at. A nil accessor
// means the screen has no such filter.
type Accessors[T any] struct {
	Company      func(T) string
	ReturnReason func(T) string
	ReturnBy     func(T) string
	Date         func(T) string
	ParseDate    func(string) (Day, bool)
}

type Config[T any, F Form] struct {
	Name      string
	Backend   Backend[T]
	Cache     *Apis.QueryCache
	ID        func(T) string
	ToForm    func(T) F
	Blank     func() F
	Messages  Forms.Messages
	Accessors Accessors[T]
	// Measure yields the values summed in the table footer.
	Measure     func(T) Measures
	WithCompany func(F, Models.Company) F
	Report      *ReportSpec
	Downloader  Downloader
}

// Controller holds one screen's state for one browser session. The lock is
// never held across a call to the backend.
type Controller[T any, F Form] struct {
	cfg Config[T, F]

	mu          sync.Mutex
	records     []T
	loaded      bool
	mode        Mode
	editingID   string
	form        F
	fieldErrors Forms.Errors
	err         string
	page        int
	criteria    Criteria
	downloading bool
}

func NewController[T any, F Form](cfg Config[T, F]) *Controller[T, F] {
	c := &Controller[T, F]{cfg: cfg}
	c.reset()
	return c
}

func (c *Controller[T, F]) Name() string {
	return c.cfg.Name
}

func (c *Controller[T, F]) reset() {
	c.records = nil
	c.loaded = false
	c.mode = Viewing
	c.editingID = ""
	c.form = c.cfg.Blank()
	c.fieldErrors = nil
	c.err = ""
	c.page = 1
	c.criteria = Criteria{}
	c.downloading = false
}

// Reset forgets everything, used when the session logs in or out.
func (c *Controller[T, F]) Reset() {
	c.mu.Lock()
	c.reset()
	c.mu.Unlock()
}

// Load reads the list through the cache. A failure keeps whatever list the
// screen already had.
func (c *Controller[T, F]) Load(ctx context.Context) error {
	records, err := Apis.Query(ctx, c.cfg.Cache, c.cfg.Name, c.cfg.Backend.List)
	c.store(records, err)
	return err
}

func (c *Controller[T, F]) reload(ctx context.Context) error {
	records, err := Apis.Refetch(ctx, c.cfg.Cache, c.cfg.Name, c.cfg.Backend.List)
	c.store(records, err)
	return err
}

func (c *Controller[T, F]) store(records []T, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.err = Apis.MessageOf(err, "Failed to load "+c.cfg.Name+"!")
		return
	}
	c.records = records
	c.loaded = true
}

// Records returns the last fetched list as the server sent it.
func (c *Controller[T, F]) Records() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.records...)
}

func (c *Controller[T, F]) Select(record T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = Editing
	c.editingID = c.cfg.ID(record)
	c.form = c.cfg.ToForm(record)
	c.fieldErrors = nil
	c.err = ""
}

func (c *Controller[T, F]) SelectByID(id string) error {
	c.mu.Lock()
	var (
		found  T
		exists bool
	)
	for _, record := range c.records {
		if c.cfg.ID(record) == id {
			found, exists = record, true
			break
		}
	}
	c.mu.Unlock()

	if !exists {
		return ErrNotFound
	}
	c.Select(found)
	return nil
}

// Submit validates form and then updates the record being edited or
// creates a new one. On success the list is fetched again.
func (c *Controller[T, F]) Submit(ctx context.Context, form F) error {
	c.mu.Lock()
	c.err = ""
	c.form = form
	c.fieldErrors = Forms.Validate(form, c.cfg.Messages)
	if len(c.fieldErrors) > 0 {
		c.mu.Unlock()
		return ErrInvalid
	}
	id := c.editingID
	prior := Viewing
	if id != "" {
		prior = Editing
	}
	c.mode = Submitting
	c.mu.Unlock()

	var err error
	if prior == Editing {
		err = c.cfg.Backend.Update(ctx, id, form.Payload())
	} else {
		err = c.cfg.Backend.Create(ctx, form.Payload())
	}

	c.mu.Lock()
	if err != nil {
		c.mode = prior
		c.err = Apis.MessageOf(err, "Operation failed!")
		c.mu.Unlock()
		return err
	}
	c.mode = Viewing
	c.editingID = ""
	c.form = c.cfg.Blank()
	c.mu.Unlock()

	c.reload(ctx)
	return nil
}

// Remove deletes without asking for confirmation.
func (c *Controller[T, F]) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	c.err = ""
	c.mu.Unlock()

	if err := c.cfg.Backend.Delete(ctx, id); err != nil {
		c.mu.Lock()
		c.err = Apis.MessageOf(err, "Delete failed!")
		c.mu.Unlock()
		return err
	}
	c.reload(ctx)
	return nil
}

func (c *Controller[T, F]) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = Viewing
	c.editingID = ""
	c.form = c.cfg.Blank()
	c.fieldErrors = nil
	c.err = ""
}

// Paginate moves to page n. Out of range pages render empty; the view
// disables the controls that would lead there.
func (c *Controller[T, F]) Paginate(n int) {
	c.mu.Lock()
	c.page = n
	c.mu.Unlock()
}

// Filter replaces the criteria and goes back to the first page.
func (c *Controller[T, F]) Filter(criteria Criteria) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria = criteria.normalized()
	c.page = 1
	c.err = ""
}

func (c *Controller[T, F]) Criteria() Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria
}

// SetForm replaces the form values without validating or submitting them.
func (c *Controller[T, F]) SetForm(form F) {
	c.mu.Lock()
	c.form = form
	c.mu.Unlock()
}

// DeriveCompany sets the form's company and copies that company's
// platforms, or clears them when the name is unknown.
func (c *Controller[T, F]) DeriveCompany(name string, companies []Models.Company) {
	if c.cfg.WithCompany == nil {
		return
	}
	selected := Models.Company{Name: name, Platforms: []string{}}
	for _, company := range companies {
		if company.Name == name {
			selected = company
			break
		}
	}

	c.mu.Lock()
	c.form = c.cfg.WithCompany(c.form, selected)
	c.mu.Unlock()
}

// Filtered returns the records the current criteria let through, in fetch
// order.
func (c *Controller[T, F]) Filtered() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filtered()
}

func (c *Controller[T, F]) filtered() []T {
	out := make([]T, 0, len(c.records))
	for _, record := range c.records {
		if matches(c.criteria, record, c.cfg.Accessors) {
			out = append(out, record)
		}
	}
	return out
}
