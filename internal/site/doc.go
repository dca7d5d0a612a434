// Package site renders the bilingual static site.
//
// Every view is rendered once per locale from a template in the template
// directory and written to a Sink. The Spanish tree lives at the output
// root and the English tree under en/. Listing views are paginated, and
// page 1 is written to the listing root, page/ and page/1/.
package site
