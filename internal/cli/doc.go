// Package cli parses the stickernest command line into an app.Config.
package cli
