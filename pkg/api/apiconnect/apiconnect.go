// Package apiconnect holds the Connect service descriptors of the billtracker
// API: procedure names, handler constructors and typed clients.
//
// Every constructor installs api.Codec, so payloads are plain JSON.
package apiconnect

import (
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/billtracker/pkg/api"
)

// Fully-qualified service names.
const (
	AuthServiceName     = "billtracker.v1.AuthService"
	UserServiceName     = "billtracker.v1.UserService"
	CategoryServiceName = "billtracker.v1.CategoryService"
	BillServiceName     = "billtracker.v1.BillService"
	ReminderServiceName = "billtracker.v1.ReminderService"
)

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
}

// router dispatches on the request path to the handler of each procedure.
type router map[string]http.Handler

func (rt router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h, ok := rt[r.URL.Path]; ok {
		h.ServeHTTP(w, r)
		return
	}
	http.NotFound(w, r)
}
