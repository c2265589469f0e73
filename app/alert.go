// app/alert.go
package app

import (
	"errors"

	"github.com/vinizap/instantnotes/client"
)

type Alert struct {
	Title   string
	Message string
}

// AlertFor turns an error from the app into the dialog shown to the user.
func AlertFor(err error) Alert {
	switch {
	case errors.Is(err, client.ErrOffline):
		return Alert{Title: "There is no internet", Message: "Turn on your wifi or data"}
	case errors.Is(err, client.ErrDecode):
		return Alert{Title: "Something went wrong.", Message: "The server sent a response we can't read."}
	default:
		return Alert{Title: "Something went wrong.", Message: "We can't reach the server right now."}
	}
}
