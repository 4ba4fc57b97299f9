package store

import (
	"context"
	"fmt"

	"github.com/capibaras/clientele/internal/models"
)

// UnassignedClientID is the reserved identifier standing in for "no client".
// It is an implementation artifact of the storage layout: looking it up as a
// client always reports not found, and it never appears in client listings.
const UnassignedClientID = "00000000-0000-0000-0000-000000000000"

// DuplicateEmailError signals that a create hit the unique-email invariant.
// It is the only typed store error; handlers translate it to a 409.
type DuplicateEmailError struct {
	Email string
}

func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("a user with the email %q already exists", e.Email)
}

// ListOptions controls offset-style pagination over an employee listing.
// PageNumber is 1-based; PageSize must already be validated by the caller.
type ListOptions struct {
	PageSize   int
	PageNumber int
}

// ClientStore provides durable, uniqueness-enforcing persistence for clients.
//
// Point lookups and finds return (nil, nil) when no record matches; errors are
// reserved for storage failures and the duplicate-email invariant.
type ClientStore interface {
	// Create inserts the client after atomically checking that no other
	// client uses the same incidents email. Returns *DuplicateEmailError on
	// a conflict.
	Create(ctx context.Context, client *models.Client) error

	// Get returns the client by id, or (nil, nil) when absent. The reserved
	// unassigned id always reports not found.
	Get(ctx context.Context, id string) (*models.Client, error)

	// FindByEmail returns the client with the given incidents email. Zero
	// matches yield (nil, nil); more than one match indicates a uniqueness
	// violation and also yields (nil, nil) after logging, never an arbitrary
	// pick.
	FindByEmail(ctx context.Context, email string) (*models.Client, error)

	// Update overwrites the mutable fields of an existing client.
	Update(ctx context.Context, client *models.Client) error

	// List returns all clients ordered by name.
	List(ctx context.Context) ([]models.Client, error)

	// DeleteAll removes every client in batches. Reset support only.
	DeleteAll(ctx context.Context) error
}

// EmployeeStore provides persistence for employees across all clients.
// The email uniqueness check spans every employee regardless of assignment.
type EmployeeStore interface {
	// Create inserts the employee after atomically checking the global email
	// uniqueness invariant. Returns *DuplicateEmailError on a conflict.
	Create(ctx context.Context, employee *models.Employee) error

	// Get returns the employee by id scoped to the given client assignment
	// (nil means the unassigned pool), or (nil, nil) when absent.
	Get(ctx context.Context, id string, clientID *string) (*models.Employee, error)

	// GetByID returns the employee by id regardless of client assignment.
	// Invitation responses need this: the caller's token may predate the
	// invite that moved them under a client.
	GetByID(ctx context.Context, id string) (*models.Employee, error)

	// FindByEmail behaves like ClientStore.FindByEmail over all employees.
	FindByEmail(ctx context.Context, email string) (*models.Employee, error)

	// Update overwrites the mutable fields of an existing employee,
	// including client assignment and invitation state.
	Update(ctx context.Context, employee *models.Employee) error

	// Delete removes a single employee scoped by client assignment.
	Delete(ctx context.Context, id string, clientID *string) error

	// ListByClient returns one page of a client's employees ordered by
	// invitation date descending, along with the total count.
	ListByClient(ctx context.Context, clientID string, opts ListOptions) ([]models.Employee, int64, error)

	// ListPage is the cursor-token flavour of ListByClient. An empty token
	// means the first page; the returned token is the id of the last item
	// when the page was full, empty otherwise.
	ListPage(ctx context.Context, clientID string, pageSize int, pageToken string) ([]models.Employee, string, error)

	// DeleteAll removes every employee in batches. Reset support only.
	DeleteAll(ctx context.Context) error
}
