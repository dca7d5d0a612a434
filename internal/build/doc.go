// Package build runs the site build pipeline.
//
// A build is a fixed, sequential list of stages: prepare the output tree,
// fetch every collection, collect standalone media, transform logs and
// filter content, then render every view. The first fatal stage error
// aborts the build; there are no retries. Every run produces a Report.
package build
