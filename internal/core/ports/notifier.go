package ports

import "context"

// NotificationSender delivers a passcode to a destination. Implementations
// report failure to their caller, but the auth flow treats delivery as
// best-effort: a failed send is logged and never blocks login.
type NotificationSender interface {
	SendCode(ctx context.Context, destination, code string) error
}

// DeliveryJob is one passcode delivery handed to the async dispatcher.
type DeliveryJob struct {
	UserID      string
	Channel     string
	Destination string
	Code        string
}

// CodeDelivery accepts delivery jobs for asynchronous, best-effort dispatch.
type CodeDelivery interface {
	Deliver(job DeliveryJob)
}
