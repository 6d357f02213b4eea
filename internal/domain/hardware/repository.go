package hardware

import "context"

// entityName is used in error messages and log fields.
const entityName = "hardware"

// Query is a built, not yet executed, query over records.
type Query interface {
	// One returns the single matching record, or nil if there is none.
	One(ctx context.Context) (*Record, error)

	// Many returns the matching records of the requested page.
	Many(ctx context.Context) ([]Record, error)

	// Count returns the number of matches ignoring pagination.
	Count(ctx context.Context) (int64, error)
}

// QueryBuilder translates lookups and criteria into executable queries.
type QueryBuilder interface {
	// BuildByID scopes a query to one identity, optionally joining its images.
	BuildByID(id int64, withImages bool) Query

	// Build composes the criteria predicates and applies pagination.
	Build(criteria SearchCriteria, pageable Pageable) Query
}

// Repository is the write side of the record store.
// Calls made with a transactional context run inside that transaction.
type Repository interface {
	// ExistsByName reports whether any record carries name.
	ExistsByName(ctx context.Context, name string) (bool, error)

	// Insert stores rec without its images and fills in the store-owned fields.
	Insert(ctx context.Context, rec *Record) error

	// InsertImage stores img for the record hardwareID and assigns its identity.
	InsertImage(ctx context.Context, hardwareID int64, img *Image) error

	// Update writes the mutable fields of rec if the stored version still
	// equals rec.Version, incrementing it by one. It returns the new version,
	// or a VersionOutdated error when no row matched.
	Update(ctx context.Context, rec *Record) (int, error)

	// DeleteImage removes a single image.
	DeleteImage(ctx context.Context, imageID int64) error

	// Delete removes the record row and reports whether a row was removed.
	Delete(ctx context.Context, id int64) (bool, error)
}

// Notification is a message sent after a record has been created.
type Notification struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Notifier delivers notifications on a best-effort basis.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
