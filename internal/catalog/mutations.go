package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/angelmondragon/sgr-storefront/pkg/backend"
	apperrors "github.com/angelmondragon/sgr-storefront/pkg/errors"
	"github.com/angelmondragon/sgr-storefront/pkg/logger"
)

type mutationClient interface {
	CreateProduct(ctx context.Context, req backend.CreateProductRequest) error
	UpdateProduct(ctx context.Context, req backend.UpdateProductRequest) error
	DeleteProduct(ctx context.Context, id int64) error
}

// DialogKind identifies which mutation dialog is open, if any. At most one
// dialog exists at a time.
type DialogKind int

const (
	DialogNone DialogKind = iota
	DialogCreate
	DialogUpdate
	DialogDelete
)

// DialogState is what the mutation modal renders: which dialog, its target
// product for update/delete, whether a submit is in flight, and the error
// from the last failed submit. A failed submit keeps the dialog open so the
// user's input is not lost.
type DialogState struct {
	Kind       DialogKind
	Target     *backend.Product
	Submitting bool
	Err        error
}

// Flows drives the create/update/delete product dialogs and the category
// creation form.
type Flows struct {
	client    mutationClient
	directory *Directory
	engine    *Engine
	validate  *validator.Validate
	logg      *logger.Logger

	mu     sync.Mutex
	dialog DialogState
}

func NewFlows(client mutationClient, directory *Directory, engine *Engine, logg *logger.Logger) (*Flows, error) {
	if client == nil {
		return nil, fmt.Errorf("mutation client required")
	}
	if directory == nil {
		return nil, fmt.Errorf("category directory required")
	}
	if engine == nil {
		return nil, fmt.Errorf("query engine required")
	}
	return &Flows{
		client:    client,
		directory: directory,
		engine:    engine,
		validate:  validator.New(),
		logg:      logg,
	}, nil
}

// Dialog returns the current dialog state.
func (f *Flows) Dialog() DialogState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dialog
}

// setDialog swaps the dialog wholesale, discarding any previous target,
// submit flag or error.
func (f *Flows) setDialog(state DialogState) {
	f.mu.Lock()
	f.dialog = state
	f.mu.Unlock()
}

// OpenCreate opens an empty create-product dialog.
func (f *Flows) OpenCreate() {
	f.setDialog(DialogState{Kind: DialogCreate})
}

// OpenUpdate opens the update dialog pre-filled with the given product.
func (f *Flows) OpenUpdate(product backend.Product) {
	f.setDialog(DialogState{Kind: DialogUpdate, Target: &product})
}

// OpenDelete opens the delete confirmation dialog for the given product.
func (f *Flows) OpenDelete(product backend.Product) {
	f.setDialog(DialogState{Kind: DialogDelete, Target: &product})
}

// Close dismisses whatever dialog is open, discarding any pending error.
func (f *Flows) Close() {
	f.setDialog(DialogState{Kind: DialogNone})
}

// SubmitCreate validates and submits a new product. On success the dialog
// closes and the product grid refetches; on failure the dialog stays open
// with the error attached.
func (f *Flows) SubmitCreate(ctx context.Context, req backend.CreateProductRequest) error {
	if err := f.validateInput(req); err != nil {
		return f.fail(err)
	}
	if !f.beginSubmit(DialogCreate) {
		return apperrors.New(apperrors.CodeValidation, "no create dialog open")
	}
	if err := f.client.CreateProduct(ctx, req); err != nil {
		return f.fail(err)
	}
	f.succeed()
	return nil
}

// SubmitUpdate validates and submits a partial product update. Nil fields in
// the request mean "leave unchanged".
func (f *Flows) SubmitUpdate(ctx context.Context, req backend.UpdateProductRequest) error {
	if err := f.validateInput(req); err != nil {
		return f.fail(err)
	}
	if !f.beginSubmit(DialogUpdate) {
		return apperrors.New(apperrors.CodeValidation, "no update dialog open")
	}
	if err := f.client.UpdateProduct(ctx, req); err != nil {
		return f.fail(err)
	}
	f.succeed()
	return nil
}

// ConfirmDelete deletes the dialog's target product, but only when the typed
// confirmation matches the product name exactly.
func (f *Flows) ConfirmDelete(ctx context.Context, typedName string) error {
	f.mu.Lock()
	if f.dialog.Kind != DialogDelete || f.dialog.Target == nil {
		f.mu.Unlock()
		return apperrors.New(apperrors.CodeValidation, "no delete dialog open")
	}
	target := *f.dialog.Target
	f.mu.Unlock()

	if typedName != target.Name {
		return f.fail(apperrors.New(apperrors.CodeValidation, "typed name does not match product name"))
	}
	if !f.beginSubmit(DialogDelete) {
		return apperrors.New(apperrors.CodeValidation, "no delete dialog open")
	}
	if err := f.client.DeleteProduct(ctx, target.ID); err != nil {
		return f.fail(err)
	}
	f.succeed()
	return nil
}

// CreateCategory registers a category from the create/update dialogs' inline
// category form.
func (f *Flows) CreateCategory(ctx context.Context, name string) error {
	return f.directory.CreateCategory(ctx, name)
}

func (f *Flows) validateInput(input any) error {
	if err := f.validate.Struct(input); err != nil {
		return apperrors.Wrap(apperrors.CodeValidation, err, "invalid product input")
	}
	return nil
}

// beginSubmit marks the dialog busy, refusing if the expected dialog is not
// open or a submit is already running.
func (f *Flows) beginSubmit(kind DialogKind) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dialog.Kind != kind || f.dialog.Submitting {
		return false
	}
	f.dialog.Submitting = true
	f.dialog.Err = nil
	return true
}

func (f *Flows) succeed() {
	f.mu.Lock()
	f.dialog = DialogState{Kind: DialogNone}
	f.mu.Unlock()
	f.engine.Invalidate()
}

func (f *Flows) fail(err error) error {
	f.mu.Lock()
	f.dialog.Submitting = false
	f.dialog.Err = err
	f.mu.Unlock()
	return err
}
