// Package router maps paths to views and enforces the auth guard on
// every navigation. Resolution is a pure function of the target path
// and the logged-in flag so the guard is testable in isolation.
package router

import "net/url"

// Route paths
const (
	PathHome       = "/"
	PathLogin      = "/login"
	PathRegister   = "/register"
	PathTasks      = "/tasks"
	PathCalendar   = "/calendar"
	PathAISchedule = "/ai-schedule"
)

// Route names
const (
	NameHome       = "Home"
	NameLogin      = "Login"
	NameRegister   = "Register"
	NameTasks      = "Tasks"
	NameCalendar   = "Calendar"
	NameAISchedule = "AISchedule"
	NameNotFound   = "NotFound"
)

// Route is one navigation target.
type Route struct {
	Path         string
	Name         string
	RequiresAuth bool
}

// Routes is the full route table. Unmatched paths fall through to the
// catch-all NotFound route, which declares no auth requirement.
var Routes = []Route{
	{Path: PathHome, Name: NameHome, RequiresAuth: true},
	{Path: PathLogin, Name: NameLogin},
	{Path: PathRegister, Name: NameRegister},
	{Path: PathTasks, Name: NameTasks, RequiresAuth: true},
	{Path: PathCalendar, Name: NameCalendar, RequiresAuth: true},
	{Path: PathAISchedule, Name: NameAISchedule, RequiresAuth: true},
}

var notFound = Route{Path: "", Name: NameNotFound}

// Match returns the route for a path, ignoring any query component.
func Match(path string) Route {
	p := path
	if u, err := url.Parse(path); err == nil {
		p = u.Path
	}
	for _, r := range Routes {
		if r.Path == p {
			return r
		}
	}
	return notFound
}

// Resolution is the outcome of resolving a navigation target.
type Resolution struct {
	Path       string // final path, including any redirect query
	Route      Route  // route that will render
	Redirected bool
}

// Resolve applies the guard to a navigation target. Anonymous
// navigation to a protected route redirects to the login route carrying
// the intended path; authenticated navigation to login or register
// redirects home; everything else is allowed as-is.
func Resolve(target string, loggedIn bool) Resolution {
	route := Match(target)

	if route.RequiresAuth && !loggedIn {
		q := url.Values{}
		q.Set("redirect", target)
		login := Match(PathLogin)
		return Resolution{
			Path:       PathLogin + "?" + q.Encode(),
			Route:      login,
			Redirected: true,
		}
	}

	if loggedIn && (route.Name == NameLogin || route.Name == NameRegister) {
		return Resolution{
			Path:       PathHome,
			Route:      Match(PathHome),
			Redirected: true,
		}
	}

	return Resolution{Path: target, Route: route}
}

// RedirectTarget extracts the post-login redirect from a resolved login
// path, "" when absent.
func RedirectTarget(path string) string {
	u, err := url.Parse(path)
	if err != nil {
		return ""
	}
	return u.Query().Get("redirect")
}
