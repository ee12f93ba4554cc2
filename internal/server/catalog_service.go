// Package server exposes the phone catalog to browser clients: a Connect RPC catalog service,
// a printable comparison page and a health check.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"connectrpc.com/connect"
	"google.golang.org/genproto/googleapis/rpc/errdetails"

	"github.com/at-ishikawa/phonecompare/internal/app"
	"github.com/at-ishikawa/phonecompare/internal/catalog"
	"github.com/at-ishikawa/phonecompare/internal/filter"
	"github.com/at-ishikawa/phonecompare/internal/phone"
	"github.com/at-ishikawa/phonecompare/internal/render"
	"github.com/at-ishikawa/phonecompare/internal/selection"
	"github.com/at-ishikawa/phonecompare/internal/storage"
)

const CatalogServiceName = "phonecompare.v1.CatalogService"

const (
	ListPhonesProcedure      = "/" + CatalogServiceName + "/ListPhones"
	GetPhoneProcedure        = "/" + CatalogServiceName + "/GetPhone"
	AddPhoneProcedure        = "/" + CatalogServiceName + "/AddPhone"
	UpdatePhoneProcedure     = "/" + CatalogServiceName + "/UpdatePhone"
	ToggleSelectionProcedure = "/" + CatalogServiceName + "/ToggleSelection"
	ClearSelectionProcedure  = "/" + CatalogServiceName + "/ClearSelection"
	CompareProcedure         = "/" + CatalogServiceName + "/Compare"
	ExportProcedure          = "/" + CatalogServiceName + "/Export"
	ImportProcedure          = "/" + CatalogServiceName + "/Import"
)

type ListPhonesRequest struct {
	Query filter.Query `json:"query"`
}

type GetPhoneRequest struct {
	ID string `json:"id"`
}

type GetPhoneResponse struct {
	Phone  phone.Record  `json:"phone"`
	Detail render.Detail `json:"detail"`
}

type AddPhoneRequest struct {
	Form catalog.Form `json:"form"`
}

type UpdatePhoneRequest struct {
	ID   string       `json:"id"`
	Form catalog.Form `json:"form"`
}

// PhoneResponse is the outcome of adding or editing a phone.
type PhoneResponse struct {
	Phone  phone.Record `json:"phone"`
	Notice app.Notice   `json:"notice"`
	View   app.View     `json:"view"`
}

type ToggleSelectionRequest struct {
	ID string `json:"id"`
}

type ClearSelectionRequest struct{}

// ViewResponse is the notice of an action and the view after it.
type ViewResponse struct {
	Notice app.Notice `json:"notice"`
	View   app.View   `json:"view"`
}

type CompareRequest struct{}

type CompareResponse struct {
	Table    render.Table `json:"table"`
	Markdown string       `json:"markdown"`
}

type ExportRequest struct {
	Format storage.Format `json:"format"`
}

type ExportResponse struct {
	FileName string     `json:"file_name"`
	Content  string     `json:"content"`
	Notice   app.Notice `json:"notice"`
}

type ImportRequest struct {
	Format  storage.Format `json:"format"`
	Content string         `json:"content"`
}

type ImportResponse struct {
	PhonesNew       int        `json:"phones_new"`
	PhonesSkipped   int        `json:"phones_skipped"`
	UserNew         int        `json:"user_new"`
	UserSkipped     int        `json:"user_skipped"`
	SkippedPhoneIDs []string   `json:"skipped_phone_ids,omitempty"`
	Notice          app.Notice `json:"notice"`
	View            app.View   `json:"view"`
}

// CatalogHandler serves one shared session. Requests are handled one at a time.
type CatalogHandler struct {
	mu  sync.Mutex
	app *app.App
}

func NewCatalogHandler(a *app.App) *CatalogHandler {
	return &CatalogHandler{app: a}
}

// ListPhones applies the query and returns the filtered view.
func (h *CatalogHandler) ListPhones(
	ctx context.Context,
	req *connect.Request[ListPhonesRequest],
) (*connect.Response[ViewResponse], error) {
	query := req.Msg.Query
	if err := query.Tier.Set(string(query.Tier)); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	result := h.app.SetQuery(query)
	return connect.NewResponse(&ViewResponse{Notice: result.Notice, View: result.View}), nil
}

func (h *CatalogHandler) GetPhone(
	ctx context.Context,
	req *connect.Request[GetPhoneRequest],
) (*connect.Response[GetPhoneResponse], error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	detail, err := h.app.Detail(req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	record, _ := h.app.Catalog().Find(req.Msg.ID)
	return connect.NewResponse(&GetPhoneResponse{Phone: record, Detail: detail}), nil
}

func (h *CatalogHandler) AddPhone(
	ctx context.Context,
	req *connect.Request[AddPhoneRequest],
) (*connect.Response[PhoneResponse], error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	record, result, err := h.app.Add(ctx, req.Msg.Form)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&PhoneResponse{Phone: record, Notice: result.Notice, View: result.View}), nil
}

func (h *CatalogHandler) UpdatePhone(
	ctx context.Context,
	req *connect.Request[UpdatePhoneRequest],
) (*connect.Response[PhoneResponse], error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	record, result, err := h.app.Update(ctx, req.Msg.ID, req.Msg.Form)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&PhoneResponse{Phone: record, Notice: result.Notice, View: result.View}), nil
}

func (h *CatalogHandler) ToggleSelection(
	ctx context.Context,
	req *connect.Request[ToggleSelectionRequest],
) (*connect.Response[ViewResponse], error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	result, err := h.app.Toggle(req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ViewResponse{Notice: result.Notice, View: result.View}), nil
}

func (h *CatalogHandler) ClearSelection(
	ctx context.Context,
	req *connect.Request[ClearSelectionRequest],
) (*connect.Response[ViewResponse], error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := h.app.ClearSelection()
	return connect.NewResponse(&ViewResponse{Notice: result.Notice, View: result.View}), nil
}

// Compare builds the comparison table of the current selection.
func (h *CatalogHandler) Compare(
	ctx context.Context,
	req *connect.Request[CompareRequest],
) (*connect.Response[CompareResponse], error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	table, _, err := h.app.Compare()
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&CompareResponse{Table: table, Markdown: table.Markdown()}), nil
}

// Export returns the snapshot document for the client to save.
func (h *CatalogHandler) Export(
	ctx context.Context,
	req *connect.Request[ExportRequest],
) (*connect.Response[ExportResponse], error) {
	format := req.Msg.Format
	if err := format.Set(format.String()); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	name, contents, result, err := h.app.ExportDocument(format)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("app.ExportDocument > %w", err))
	}
	return connect.NewResponse(&ExportResponse{FileName: name, Content: string(contents), Notice: result.Notice}), nil
}

func (h *CatalogHandler) Import(
	ctx context.Context,
	req *connect.Request[ImportRequest],
) (*connect.Response[ImportResponse], error) {
	format := req.Msg.Format
	if err := format.Set(format.String()); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	imported, result, err := h.app.ImportDocument(ctx, []byte(req.Msg.Content), format)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ImportResponse{
		PhonesNew:       imported.PhonesNew,
		PhonesSkipped:   imported.PhonesSkipped,
		UserNew:         imported.UserNew,
		UserSkipped:     imported.UserSkipped,
		SkippedPhoneIDs: imported.SkippedPhoneIDs,
		Notice:          result.Notice,
		View:            result.View,
	}), nil
}

// NewCatalogServiceHandler builds the HTTP handler for every catalog procedure and returns the
// path prefix to mount it on.
func NewCatalogServiceHandler(h *CatalogHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{withJSONCodecs()}, opts...)

	mux := http.NewServeMux()
	mux.Handle(ListPhonesProcedure, connect.NewUnaryHandler(ListPhonesProcedure, h.ListPhones, opts...))
	mux.Handle(GetPhoneProcedure, connect.NewUnaryHandler(GetPhoneProcedure, h.GetPhone, opts...))
	mux.Handle(AddPhoneProcedure, connect.NewUnaryHandler(AddPhoneProcedure, h.AddPhone, opts...))
	mux.Handle(UpdatePhoneProcedure, connect.NewUnaryHandler(UpdatePhoneProcedure, h.UpdatePhone, opts...))
	mux.Handle(ToggleSelectionProcedure, connect.NewUnaryHandler(ToggleSelectionProcedure, h.ToggleSelection, opts...))
	mux.Handle(ClearSelectionProcedure, connect.NewUnaryHandler(ClearSelectionProcedure, h.ClearSelection, opts...))
	mux.Handle(CompareProcedure, connect.NewUnaryHandler(CompareProcedure, h.Compare, opts...))
	mux.Handle(ExportProcedure, connect.NewUnaryHandler(ExportProcedure, h.Export, opts...))
	mux.Handle(ImportProcedure, connect.NewUnaryHandler(ImportProcedure, h.Import, opts...))
	return "/" + CatalogServiceName + "/", mux
}

func toConnectError(err error) *connect.Error {
	var validationErr *catalog.ValidationError
	switch {
	case errors.As(err, &validationErr):
		connectErr := connect.NewError(connect.CodeInvalidArgument, err)
		var fieldViolations []*errdetails.BadRequest_FieldViolation
		for _, f := range validationErr.Fields {
			fieldViolations = append(fieldViolations, &errdetails.BadRequest_FieldViolation{
				Field:       f.Field,
				Description: f.Message,
			})
		}
		if detail, detailErr := connect.NewErrorDetail(&errdetails.BadRequest{
			FieldViolations: fieldViolations,
		}); detailErr == nil {
			connectErr.AddDetail(detail)
		}
		return connectErr
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, selection.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, selection.ErrCapacityExceeded), errors.Is(err, app.ErrEmptySelection):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, storage.ErrImportFormat):
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}
