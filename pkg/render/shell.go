package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-verisure/pkg/banner"
	"github.com/goliatone/go-verisure/pkg/contract"
	"github.com/goliatone/go-verisure/pkg/dom"
	"github.com/goliatone/go-verisure/pkg/page"
)

// WalletIdleLabel is the wallet status before any connection attempt.
const WalletIdleLabel = "Not connected"

// Shell is the renderer-neutral structure of one page: which landmarks it
// carries and what each form posts. The controller bundle finds these
// landmarks by id once the page loads.
type Shell struct {
	Kind    page.Kind `json:"kind"`
	Route   string    `json:"route"`
	Title   string    `json:"title"`
	Banners []Region  `json:"banners"`
	// Content is the content region id, empty when the page has none.
	Content string  `json:"content,omitempty"`
	Roles   []Role  `json:"roles,omitempty"`
	Forms   []Form  `json:"forms,omitempty"`
	Toggle  *Toggle `json:"toggle,omitempty"`
	Upload  *Upload `json:"upload,omitempty"`
	Wallet  *Wallet `json:"wallet,omitempty"`
	Links   []Link  `json:"links,omitempty"`
}

// Region is a banner slot.
type Region struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

// Role is one role-selection card.
type Role struct {
	Token string `json:"token"`
	Label string `json:"label"`
}

// Form is a submission form bound to an endpoint.
type Form struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Action string  `json:"action"`
	Method string  `json:"method"`
	Submit string  `json:"submit"`
	Fields []Field `json:"fields"`
}

// Field is a form control.
type Field struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Input    string   `json:"input"`
	Required bool     `json:"required,omitempty"`
	Options  []string `json:"options,omitempty"`
	Value    string   `json:"value,omitempty"`
}

// Toggle is the verifier's mode switch.
type Toggle struct {
	ID      string   `json:"id"`
	Options []Choice `json:"options"`
}

// Choice is one select option.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Upload is the PDF upload section.
type Upload struct {
	Section string `json:"section"`
	Input   string `json:"input"`
	Field   string `json:"field"`
	Action  string `json:"action"`
	Label   string `json:"label"`
	Accept  string `json:"accept,omitempty"`
	Hidden  bool   `json:"hidden,omitempty"`
}

// Wallet is the wallet connect widget.
type Wallet struct {
	Button string `json:"button"`
	Status string `json:"status"`
	Label  string `json:"label"`
}

// Link is a plain navigation link.
type Link struct {
	Href  string `json:"href"`
	Label string `json:"label"`
}

var titles = map[page.Kind]string{
	page.KindRoleSelect: "Choose your role",
	page.KindLogin:      "Login",
	page.KindRegister:   "Register",
	page.KindInstitute:  "Institute Dashboard",
	page.KindVerifier:   "Verifier Dashboard",
}

var links = map[page.Kind][]Link{
	page.KindLogin:     {{Href: "/register", Label: "Create an account"}},
	page.KindRegister:  {{Href: "/login", Label: "Already registered? Log in"}},
	page.KindInstitute: {{Href: "/logout", Label: "Logout"}},
	page.KindVerifier:  {{Href: "/logout", Label: "Logout"}},
}

// BuildShell assembles the shell of kind from the API contract.
func BuildShell(kind page.Kind, c *contract.Contract) (Shell, error) {
	if kind == page.KindProbe {
		return Shell{}, errors.New("render: a shell needs a concrete page kind")
	}
	if c == nil {
		return Shell{}, errors.New("render: contract is required")
	}

	shell := Shell{
		Kind:  kind,
		Route: kind.Route(),
		Title: titles[kind],
		Links: append([]Link(nil), links[kind]...),
	}
	for _, k := range banner.Kinds {
		shell.Banners = append(shell.Banners, Region{ID: string(k.Landmark()), Kind: string(k)})
	}
	if kind == page.KindInstitute || kind == page.KindVerifier {
		shell.Content = string(dom.PDFViewer)
	}

	for _, l := range kind.Landmarks() {
		switch l {
		case dom.RoleCard:
			roles, err := rolesFrom(c)
			if err != nil {
				return Shell{}, err
			}
			shell.Roles = roles

		case dom.PDFFile:
			op, ok := c.ForLandmark(l)
			if !ok {
				return Shell{}, fmt.Errorf("render: no operation declared for %s", l)
			}
			up := &Upload{
				Section: string(dom.UploadSection),
				Input:   string(dom.PDFFile),
				Action:  op.Path,
				Label:   op.Summary,
				Hidden:  true,
			}
			if len(op.Fields) > 0 {
				up.Field = op.Fields[0].Name
				up.Accept = op.Fields[0].Accept
			}
			shell.Upload = up

		case dom.VerifyMode:
			shell.Toggle = &Toggle{
				ID: string(dom.VerifyMode),
				Options: []Choice{
					{Value: page.VerifyByIDMode, Label: "Verify by Certificate ID"},
					{Value: "uploadPDF", Label: "Upload Certificate PDF"},
				},
			}

		case dom.ConnectWallet:
			shell.Wallet = &Wallet{
				Button: string(dom.ConnectWallet),
				Status: string(dom.WalletStatus),
				Label:  WalletIdleLabel,
			}

		default:
			op, ok := c.ForLandmark(l)
			if !ok {
				return Shell{}, fmt.Errorf("render: no operation declared for %s", l)
			}
			shell.Forms = append(shell.Forms, formFrom(l, op))
		}
	}
	return shell, nil
}

// Prefill copies values into matching form fields.
func (s Shell) Prefill(values map[string]map[string]string) Shell {
	if len(values) == 0 {
		return s
	}
	forms := make([]Form, len(s.Forms))
	for i, f := range s.Forms {
		f.Fields = append([]Field(nil), f.Fields...)
		for j := range f.Fields {
			if v, ok := values[f.ID][f.Fields[j].Name]; ok && f.Fields[j].Input != "password" {
				f.Fields[j].Value = v
			}
		}
		forms[i] = f
	}
	s.Forms = forms
	return s
}

func formFrom(l dom.Landmark, op contract.Operation) Form {
	form := Form{
		ID:     string(l),
		Title:  op.Summary,
		Action: op.Path,
		Method: strings.ToLower(op.Method),
		Submit: op.Submit,
	}
	if form.Submit == "" {
		form.Submit = "Submit"
	}
	for _, f := range op.Fields {
		form.Fields = append(form.Fields, Field{
			Name:     f.Name,
			Label:    f.Label,
			Input:    f.Input,
			Required: f.Required,
			Options:  append([]string(nil), f.Options...),
		})
	}
	return form
}

func rolesFrom(c *contract.Contract) ([]Role, error) {
	op, ok := c.ForLandmark(dom.RoleCard)
	if !ok {
		return nil, errors.New("render: no operation declared for role cards")
	}
	field, ok := op.Field("role")
	if !ok || len(field.Options) == 0 {
		return nil, errors.New("render: role operation declares no roles")
	}
	roles := make([]Role, 0, len(field.Options))
	for _, token := range field.Options {
		roles = append(roles, Role{Token: token, Label: titleCase(token)})
	}
	return roles, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
