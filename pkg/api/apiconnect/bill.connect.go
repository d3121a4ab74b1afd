package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/billtracker/pkg/api"
)

const (
	BillServiceCreateBillProcedure         = "/billtracker.v1.BillService/CreateBill"
	BillServiceGetBillProcedure            = "/billtracker.v1.BillService/GetBill"
	BillServiceUpdateBillProcedure         = "/billtracker.v1.BillService/UpdateBill"
	BillServiceDeleteBillProcedure         = "/billtracker.v1.BillService/DeleteBill"
	BillServiceListBillsProcedure          = "/billtracker.v1.BillService/ListBills"
	BillServiceGetDashboardProcedure       = "/billtracker.v1.BillService/GetDashboard"
	BillServiceTogglePaidProcedure         = "/billtracker.v1.BillService/TogglePaid"
	BillServiceRecordPaymentProcedure      = "/billtracker.v1.BillService/RecordPayment"
	BillServiceDeletePaymentProcedure      = "/billtracker.v1.BillService/DeletePayment"
	BillServiceListPaymentsProcedure       = "/billtracker.v1.BillService/ListPayments"
	BillServiceListPaymentHistoryProcedure = "/billtracker.v1.BillService/ListPaymentHistory"
)

// BillServiceClient is a client for the billtracker.v1.BillService service.
type BillServiceClient interface {
	CreateBill(context.Context, *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error)
	GetBill(context.Context, *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error)
	UpdateBill(context.Context, *connect.Request[api.UpdateBillRequest]) (*connect.Response[api.UpdateBillResponse], error)
	DeleteBill(context.Context, *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error)
	ListBills(context.Context, *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error)
	GetDashboard(context.Context, *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error)
	TogglePaid(context.Context, *connect.Request[api.TogglePaidRequest]) (*connect.Response[api.TogglePaidResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	DeletePayment(context.Context, *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	ListPaymentHistory(context.Context, *connect.Request[api.ListPaymentHistoryRequest]) (*connect.Response[api.ListPaymentHistoryResponse], error)
}

// NewBillServiceClient constructs a client for the billtracker.v1.BillService service.
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BillServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &billServiceClient{
		createBill:         connect.NewClient[api.CreateBillRequest, api.CreateBillResponse](httpClient, baseURL+BillServiceCreateBillProcedure, opts...),
		getBill:            connect.NewClient[api.GetBillRequest, api.GetBillResponse](httpClient, baseURL+BillServiceGetBillProcedure, opts...),
		updateBill:         connect.NewClient[api.UpdateBillRequest, api.UpdateBillResponse](httpClient, baseURL+BillServiceUpdateBillProcedure, opts...),
		deleteBill:         connect.NewClient[api.DeleteBillRequest, api.DeleteBillResponse](httpClient, baseURL+BillServiceDeleteBillProcedure, opts...),
		listBills:          connect.NewClient[api.ListBillsRequest, api.ListBillsResponse](httpClient, baseURL+BillServiceListBillsProcedure, opts...),
		getDashboard:       connect.NewClient[api.GetDashboardRequest, api.GetDashboardResponse](httpClient, baseURL+BillServiceGetDashboardProcedure, opts...),
		togglePaid:         connect.NewClient[api.TogglePaidRequest, api.TogglePaidResponse](httpClient, baseURL+BillServiceTogglePaidProcedure, opts...),
		recordPayment:      connect.NewClient[api.RecordPaymentRequest, api.RecordPaymentResponse](httpClient, baseURL+BillServiceRecordPaymentProcedure, opts...),
		deletePayment:      connect.NewClient[api.DeletePaymentRequest, api.DeletePaymentResponse](httpClient, baseURL+BillServiceDeletePaymentProcedure, opts...),
		listPayments:       connect.NewClient[api.ListPaymentsRequest, api.ListPaymentsResponse](httpClient, baseURL+BillServiceListPaymentsProcedure, opts...),
		listPaymentHistory: connect.NewClient[api.ListPaymentHistoryRequest, api.ListPaymentHistoryResponse](httpClient, baseURL+BillServiceListPaymentHistoryProcedure, opts...),
	}
}

type billServiceClient struct {
	createBill         *connect.Client[api.CreateBillRequest, api.CreateBillResponse]
	getBill            *connect.Client[api.GetBillRequest, api.GetBillResponse]
	updateBill         *connect.Client[api.UpdateBillRequest, api.UpdateBillResponse]
	deleteBill         *connect.Client[api.DeleteBillRequest, api.DeleteBillResponse]
	listBills          *connect.Client[api.ListBillsRequest, api.ListBillsResponse]
	getDashboard       *connect.Client[api.GetDashboardRequest, api.GetDashboardResponse]
	togglePaid         *connect.Client[api.TogglePaidRequest, api.TogglePaidResponse]
	recordPayment      *connect.Client[api.RecordPaymentRequest, api.RecordPaymentResponse]
	deletePayment      *connect.Client[api.DeletePaymentRequest, api.DeletePaymentResponse]
	listPayments       *connect.Client[api.ListPaymentsRequest, api.ListPaymentsResponse]
	listPaymentHistory *connect.Client[api.ListPaymentHistoryRequest, api.ListPaymentHistoryResponse]
}

func (c *billServiceClient) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	return c.createBill.CallUnary(ctx, req)
}

func (c *billServiceClient) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error) {
	return c.getBill.CallUnary(ctx, req)
}

func (c *billServiceClient) UpdateBill(ctx context.Context, req *connect.Request[api.UpdateBillRequest]) (*connect.Response[api.UpdateBillResponse], error) {
	return c.updateBill.CallUnary(ctx, req)
}

func (c *billServiceClient) DeleteBill(ctx context.Context, req *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error) {
	return c.deleteBill.CallUnary(ctx, req)
}

func (c *billServiceClient) ListBills(ctx context.Context, req *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error) {
	return c.listBills.CallUnary(ctx, req)
}

func (c *billServiceClient) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	return c.getDashboard.CallUnary(ctx, req)
}

func (c *billServiceClient) TogglePaid(ctx context.Context, req *connect.Request[api.TogglePaidRequest]) (*connect.Response[api.TogglePaidResponse], error) {
	return c.togglePaid.CallUnary(ctx, req)
}

func (c *billServiceClient) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *billServiceClient) DeletePayment(ctx context.Context, req *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error) {
	return c.deletePayment.CallUnary(ctx, req)
}

func (c *billServiceClient) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}

func (c *billServiceClient) ListPaymentHistory(ctx context.Context, req *connect.Request[api.ListPaymentHistoryRequest]) (*connect.Response[api.ListPaymentHistoryResponse], error) {
	return c.listPaymentHistory.CallUnary(ctx, req)
}

// BillServiceHandler is implemented by the billtracker.v1.BillService service.
type BillServiceHandler interface {
	CreateBill(context.Context, *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error)
	GetBill(context.Context, *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error)
	UpdateBill(context.Context, *connect.Request[api.UpdateBillRequest]) (*connect.Response[api.UpdateBillResponse], error)
	DeleteBill(context.Context, *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error)
	ListBills(context.Context, *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error)
	GetDashboard(context.Context, *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error)
	TogglePaid(context.Context, *connect.Request[api.TogglePaidRequest]) (*connect.Response[api.TogglePaidResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	DeletePayment(context.Context, *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	ListPaymentHistory(context.Context, *connect.Request[api.ListPaymentHistoryRequest]) (*connect.Response[api.ListPaymentHistoryResponse], error)
}

// NewBillServiceHandler builds an HTTP handler from the service implementation.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + BillServiceName + "/", router{
		BillServiceCreateBillProcedure:         connect.NewUnaryHandler(BillServiceCreateBillProcedure, svc.CreateBill, opts...),
		BillServiceGetBillProcedure:            connect.NewUnaryHandler(BillServiceGetBillProcedure, svc.GetBill, opts...),
		BillServiceUpdateBillProcedure:         connect.NewUnaryHandler(BillServiceUpdateBillProcedure, svc.UpdateBill, opts...),
		BillServiceDeleteBillProcedure:         connect.NewUnaryHandler(BillServiceDeleteBillProcedure, svc.DeleteBill, opts...),
		BillServiceListBillsProcedure:          connect.NewUnaryHandler(BillServiceListBillsProcedure, svc.ListBills, opts...),
		BillServiceGetDashboardProcedure:       connect.NewUnaryHandler(BillServiceGetDashboardProcedure, svc.GetDashboard, opts...),
		BillServiceTogglePaidProcedure:         connect.NewUnaryHandler(BillServiceTogglePaidProcedure, svc.TogglePaid, opts...),
		BillServiceRecordPaymentProcedure:      connect.NewUnaryHandler(BillServiceRecordPaymentProcedure, svc.RecordPayment, opts...),
		BillServiceDeletePaymentProcedure:      connect.NewUnaryHandler(BillServiceDeletePaymentProcedure, svc.DeletePayment, opts...),
		BillServiceListPaymentsProcedure:       connect.NewUnaryHandler(BillServiceListPaymentsProcedure, svc.ListPayments, opts...),
		BillServiceListPaymentHistoryProcedure: connect.NewUnaryHandler(BillServiceListPaymentHistoryProcedure, svc.ListPaymentHistory, opts...),
	}
}
