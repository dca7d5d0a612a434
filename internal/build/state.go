package build

import (
	"io/fs"

	"git.home.luguber.info/inful/bitacora/internal/fetch"
	"git.home.luguber.info/inful/bitacora/internal/metrics"
	"git.home.luguber.info/inful/bitacora/internal/site"
	"git.home.luguber.info/inful/bitacora/internal/transform"
)

// State carries data between stages of one build.
type State struct {
	Options Options
	Site    site.Context
	Report  *Report

	Dataset *fetch.Dataset
	Input   site.Input

	source    fetch.Source
	media     transform.Resolver
	templates fs.FS
	out       site.Sink
	redirects site.Sink
	recorder  metrics.Recorder
	observer  Observer
}
