package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/billtracker/pkg/api"
)

const (
	ReminderServiceListPendingNotificationsProcedure = "/billtracker.v1.ReminderService/ListPendingNotifications"
	ReminderServiceCancelBillRemindersProcedure      = "/billtracker.v1.ReminderService/CancelBillReminders"
	ReminderServiceSyncRemindersProcedure            = "/billtracker.v1.ReminderService/SyncReminders"
)

// ReminderServiceClient is a client for the billtracker.v1.ReminderService service.
type ReminderServiceClient interface {
	ListPendingNotifications(context.Context, *connect.Request[api.ListPendingNotificationsRequest]) (*connect.Response[api.ListPendingNotificationsResponse], error)
	CancelBillReminders(context.Context, *connect.Request[api.CancelBillRemindersRequest]) (*connect.Response[api.CancelBillRemindersResponse], error)
	SyncReminders(context.Context, *connect.Request[api.SyncRemindersRequest]) (*connect.Response[api.SyncRemindersResponse], error)
}

// NewReminderServiceClient constructs a client for the billtracker.v1.ReminderService service.
func NewReminderServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ReminderServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &reminderServiceClient{
		listPendingNotifications: connect.NewClient[api.ListPendingNotificationsRequest, api.ListPendingNotificationsResponse](httpClient, baseURL+ReminderServiceListPendingNotificationsProcedure, opts...),
		cancelBillReminders:      connect.NewClient[api.CancelBillRemindersRequest, api.CancelBillRemindersResponse](httpClient, baseURL+ReminderServiceCancelBillRemindersProcedure, opts...),
		syncReminders:            connect.NewClient[api.SyncRemindersRequest, api.SyncRemindersResponse](httpClient, baseURL+ReminderServiceSyncRemindersProcedure, opts...),
	}
}

type reminderServiceClient struct {
	listPendingNotifications *connect.Client[api.ListPendingNotificationsRequest, api.ListPendingNotificationsResponse]
	cancelBillReminders      *connect.Client[api.CancelBillRemindersRequest, api.CancelBillRemindersResponse]
	syncReminders            *connect.Client[api.SyncRemindersRequest, api.SyncRemindersResponse]
}

func (c *reminderServiceClient) ListPendingNotifications(ctx context.Context, req *connect.Request[api.ListPendingNotificationsRequest]) (*connect.Response[api.ListPendingNotificationsResponse], error) {
	return c.listPendingNotifications.CallUnary(ctx, req)
}

func (c *reminderServiceClient) CancelBillReminders(ctx context.Context, req *connect.Request[api.CancelBillRemindersRequest]) (*connect.Response[api.CancelBillRemindersResponse], error) {
	return c.cancelBillReminders.CallUnary(ctx, req)
}

func (c *reminderServiceClient) SyncReminders(ctx context.Context, req *connect.Request[api.SyncRemindersRequest]) (*connect.Response[api.SyncRemindersResponse], error) {
	return c.syncReminders.CallUnary(ctx, req)
}

// ReminderServiceHandler is implemented by the billtracker.v1.ReminderService service.
type ReminderServiceHandler interface {
	ListPendingNotifications(context.Context, *connect.Request[api.ListPendingNotificationsRequest]) (*connect.Response[api.ListPendingNotificationsResponse], error)
	CancelBillReminders(context.Context, *connect.Request[api.CancelBillRemindersRequest]) (*connect.Response[api.CancelBillRemindersResponse], error)
	SyncReminders(context.Context, *connect.Request[api.SyncRemindersRequest]) (*connect.Response[api.SyncRemindersResponse], error)
}

// NewReminderServiceHandler builds an HTTP handler from the service implementation.
func NewReminderServiceHandler(svc ReminderServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + ReminderServiceName + "/", router{
		ReminderServiceListPendingNotificationsProcedure: connect.NewUnaryHandler(ReminderServiceListPendingNotificationsProcedure, svc.ListPendingNotifications, opts...),
		ReminderServiceCancelBillRemindersProcedure:      connect.NewUnaryHandler(ReminderServiceCancelBillRemindersProcedure, svc.CancelBillReminders, opts...),
		ReminderServiceSyncRemindersProcedure:            connect.NewUnaryHandler(ReminderServiceSyncRemindersProcedure, svc.SyncReminders, opts...),
	}
}
