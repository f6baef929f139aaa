package session

import "fmt"

// Page is one of the application's pages.
type Page string

const (
	PageLogin     Page = "login"
	PageRegister  Page = "register"
	PageDashboard Page = "dashboard"
	PageHistory   Page = "history"
)

// Landing is where a freshly signed-in user is sent.
const Landing = PageDashboard

// ParsePage validates a page name.
func ParsePage(name string) (Page, error) {
	switch p := Page(name); p {
	case PageLogin, PageRegister, PageDashboard, PageHistory:
		return p, nil
	}
	return "", fmt.Errorf("unknown page %q", name)
}

// GuestOnly reports pages that make no sense once signed in.
func (p Page) GuestOnly() bool {
	return p == PageLogin || p == PageRegister
}

// RequiresAuth reports pages that need an identity.
func (p Page) RequiresAuth() bool {
	return p == PageDashboard || p == PageHistory
}

// Route decides whether a client on page with identity id must move, and where.
func Route(page Page, id *Identity) (Page, bool) {
	switch {
	case id != nil && page.GuestOnly():
		return Landing, true
	case id == nil && page.RequiresAuth():
		return PageLogin, true
	}
	return page, false
}
