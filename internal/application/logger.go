package application

import "github.com/oksasatya/go-live-inventory/pkg/helpers"

var discardLogger = helpers.NewDiscardLogger()
