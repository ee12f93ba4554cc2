package server

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// CatalogServiceClient calls the catalog service with JSON messages.
type CatalogServiceClient struct {
	listPhones      *connect.Client[ListPhonesRequest, ViewResponse]
	getPhone        *connect.Client[GetPhoneRequest, GetPhoneResponse]
	addPhone        *connect.Client[AddPhoneRequest, PhoneResponse]
	updatePhone     *connect.Client[UpdatePhoneRequest, PhoneResponse]
	toggleSelection *connect.Client[ToggleSelectionRequest, ViewResponse]
	clearSelection  *connect.Client[ClearSelectionRequest, ViewResponse]
	compare         *connect.Client[CompareRequest, CompareResponse]
	export          *connect.Client[ExportRequest, ExportResponse]
	importDocument  *connect.Client[ImportRequest, ImportResponse]
}

func NewCatalogServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *CatalogServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSONCodec()}, opts...)
	return &CatalogServiceClient{
		listPhones:      connect.NewClient[ListPhonesRequest, ViewResponse](httpClient, baseURL+ListPhonesProcedure, opts...),
		getPhone:        connect.NewClient[GetPhoneRequest, GetPhoneResponse](httpClient, baseURL+GetPhoneProcedure, opts...),
		addPhone:        connect.NewClient[AddPhoneRequest, PhoneResponse](httpClient, baseURL+AddPhoneProcedure, opts...),
		updatePhone:     connect.NewClient[UpdatePhoneRequest, PhoneResponse](httpClient, baseURL+UpdatePhoneProcedure, opts...),
		toggleSelection: connect.NewClient[ToggleSelectionRequest, ViewResponse](httpClient, baseURL+ToggleSelectionProcedure, opts...),
		clearSelection:  connect.NewClient[ClearSelectionRequest, ViewResponse](httpClient, baseURL+ClearSelectionProcedure, opts...),
		compare:         connect.NewClient[CompareRequest, CompareResponse](httpClient, baseURL+CompareProcedure, opts...),
		export:          connect.NewClient[ExportRequest, ExportResponse](httpClient, baseURL+ExportProcedure, opts...),
		importDocument:  connect.NewClient[ImportRequest, ImportResponse](httpClient, baseURL+ImportProcedure, opts...),
	}
}

func (c *CatalogServiceClient) ListPhones(ctx context.Context, req *connect.Request[ListPhonesRequest]) (*connect.Response[ViewResponse], error) {
	return c.listPhones.CallUnary(ctx, req)
}

func (c *CatalogServiceClient) GetPhone(ctx context.Context, req *connect.Request[GetPhoneRequest]) (*connect.Response[GetPhoneResponse], error) {
	return c.getPhone.CallUnary(ctx, req)
}

func (c *CatalogServiceClient) AddPhone(ctx context.Context, req *connect.Request[AddPhoneRequest]) (*connect.Response[PhoneResponse], error) {
	return c.addPhone.CallUnary(ctx, req)
}

func (c *CatalogServiceClient) UpdatePhone(ctx context.Context, req *connect.Request[UpdatePhoneRequest]) (*connect.Response[PhoneResponse], error) {
	return c.updatePhone.CallUnary(ctx, req)
}

func (c *CatalogServiceClient) ToggleSelection(ctx context.Context, req *connect.Request[ToggleSelectionRequest]) (*connect.Response[ViewResponse], error) {
	return c.toggleSelection.CallUnary(ctx, req)
}

func (c *CatalogServiceClient) ClearSelection(ctx context.Context, req *connect.Request[ClearSelectionRequest]) (*connect.Response[ViewResponse], error) {
	return c.clearSelection.CallUnary(ctx, req)
}

func (c *CatalogServiceClient) Compare(ctx context.Context, req *connect.Request[CompareRequest]) (*connect.Response[CompareResponse], error) {
	return c.compare.CallUnary(ctx, req)
}

func (c *CatalogServiceClient) Export(ctx context.Context, req *connect.Request[ExportRequest]) (*connect.Response[ExportResponse], error) {
	return c.export.CallUnary(ctx, req)
}

func (c *CatalogServiceClient) Import(ctx context.Context, req *connect.Request[ImportRequest]) (*connect.Response[ImportResponse], error) {
	return c.importDocument.CallUnary(ctx, req)
}
