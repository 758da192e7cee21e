// Package page composes the controller for one page load.
//
// A page is identified by its Kind, chosen by the server from the route and
// published on the document. Each kind owns a fixed set of landmarks; the
// Initializer wires the landmarks of its kind that the document actually
// contains and ignores the rest.
package page

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-verisure/pkg/dom"
)

// Kind names a page variant.
type Kind string

const (
	// KindProbe considers every landmark, for documents that do not publish
	// their kind.
	KindProbe      Kind = ""
	KindRoleSelect Kind = "role-select"
	KindLogin      Kind = "login"
	KindRegister   Kind = "register"
	KindInstitute  Kind = "institute-dashboard"
	KindVerifier   Kind = "verifier-dashboard"
)

// KindAttr is the body attribute carrying the page kind.
const KindAttr = "data-page-kind"

// RedirectDelayAttr is the body attribute carrying the post-login redirect
// delay in whole milliseconds. Pages without it use DefaultRedirectDelay.
const RedirectDelayAttr = "data-redirect-delay"

// FormatRedirectDelay renders d for RedirectDelayAttr.
func FormatRedirectDelay(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10)
}

// ParseRedirectDelay reads a RedirectDelayAttr value. An empty value reports
// DefaultRedirectDelay.
func ParseRedirectDelay(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultRedirectDelay, nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms < 0 {
		return DefaultRedirectDelay, fmt.Errorf("page: invalid redirect delay %q", raw)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// Kinds lists the routable page kinds in navigation order.
var Kinds = []Kind{KindRoleSelect, KindLogin, KindRegister, KindInstitute, KindVerifier}

var routes = map[Kind]string{
	KindRoleSelect: "/",
	KindLogin:      "/login",
	KindRegister:   "/register",
	KindInstitute:  "/institute-dashboard",
	KindVerifier:   "/verifier-dashboard",
}

var landmarks = map[Kind][]dom.Landmark{
	KindRoleSelect: {dom.RoleCard, dom.ConnectWallet},
	KindLogin:      {dom.LoginForm},
	KindRegister:   {dom.RegisterForm},
	KindInstitute:  {dom.CertForm, dom.ViewCertForm, dom.ConnectWallet},
	KindVerifier:   {dom.VerifyCertForm, dom.PDFFile, dom.VerifyMode, dom.ConnectWallet},
}

// wiring is the order the initializer walks landmarks in.
var wiring = []dom.Landmark{
	dom.RoleCard,
	dom.LoginForm,
	dom.RegisterForm,
	dom.CertForm,
	dom.ViewCertForm,
	dom.VerifyCertForm,
	dom.PDFFile,
	dom.VerifyMode,
	dom.ConnectWallet,
}

// ParseKind resolves a kind name. The empty string is KindProbe.
func ParseKind(raw string) (Kind, error) {
	k := Kind(strings.TrimSpace(strings.ToLower(raw)))
	if k == KindProbe {
		return KindProbe, nil
	}
	if _, ok := routes[k]; !ok {
		return KindProbe, fmt.Errorf("page: unknown kind %q", raw)
	}
	return k, nil
}

// KindForRoute returns the kind served at route.
func KindForRoute(route string) (Kind, bool) {
	if route != "/" {
		route = strings.TrimSuffix(route, "/")
	}
	for kind, r := range routes {
		if r == route {
			return kind, true
		}
	}
	return KindProbe, false
}

// Route returns the path the kind is served at, empty for KindProbe.
func (k Kind) Route() string {
	return routes[k]
}

// Landmarks returns the landmarks the kind may wire, in wiring order.
func (k Kind) Landmarks() []dom.Landmark {
	if k == KindProbe {
		return append([]dom.Landmark(nil), wiring...)
	}
	allowed := landmarks[k]
	out := make([]dom.Landmark, 0, len(allowed))
	for _, l := range wiring {
		for _, a := range allowed {
			if a == l {
				out = append(out, l)
				break
			}
		}
	}
	return out
}

func (k Kind) String() string {
	if k == KindProbe {
		return "probe"
	}
	return string(k)
}
