package dom

import (
	"context"
	"errors"
	"io"
)

// Landmark identifies a named location in the page.
type Landmark string

const (
	RoleCard       Landmark = "roleCard"
	LoginForm      Landmark = "loginForm"
	RegisterForm   Landmark = "registerForm"
	CertForm       Landmark = "certForm"
	ViewCertForm   Landmark = "viewCertForm"
	VerifyCertForm Landmark = "verifyCertForm"
	PDFFile        Landmark = "pdfFile"
	UploadSection  Landmark = "uploadSection"
	VerifyMode     Landmark = "verifyMode"
	ConnectWallet  Landmark = "connectWallet"
	WalletStatus   Landmark = "wallet"
	PDFViewer      Landmark = "pdfViewer"

	SuccessMessage Landmark = "successMessage"
	ErrorMessage   Landmark = "errorMessage"
	WarningMessage Landmark = "warningMessage"
	InfoMessage    Landmark = "infoMessage"
)

// RoleAttr is the attribute carrying the role token on role cards.
const RoleAttr = "data-role"

// ErrLandmarkMissing is returned when a handler is attached to a landmark the
// document does not contain.
var ErrLandmarkMissing = errors.New("dom: landmark not present")

// Field is a single named form value captured at submission time.
type Field struct {
	Name  string
	Value string
}

// File is a file picked through a file input.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Element exposes the attributes of the element an event fired on.
type Element interface {
	Attr(name string) string
}

type (
	SubmitHandler func(ctx context.Context, fields []Field)
	ChangeHandler func(ctx context.Context, files []File)
	ClickHandler  func(ctx context.Context, el Element)
	SelectHandler func(ctx context.Context, value string)
)

// Surface is the write side of a document used by the banner board.
type Surface interface {
	Has(l Landmark) bool
	SetText(l Landmark, text string)
	SetHTML(l Landmark, html string)
	SetVisible(l Landmark, visible bool)
}

// Navigator moves the whole page to another route.
type Navigator interface {
	Navigate(url string)
}

// Notifier raises blocking user alerts and updates status labels.
type Notifier interface {
	Alert(message string)
	SetText(l Landmark, text string)
}

// Document is the full contract a page exposes to the controller.
//
// Implementations decide how handlers are scheduled. The browser document runs
// every handler on its own goroutine so the page stays responsive while a
// request is outstanding; Memory runs them inline so tests stay deterministic.
type Document interface {
	Surface
	Navigator
	Notifier

	OnSubmit(l Landmark, h SubmitHandler) error
	OnChange(l Landmark, h ChangeHandler) error
	OnClick(l Landmark, h ClickHandler) error
	OnSelect(l Landmark, h SelectHandler) error

	// Reset restores a form's controls to their initial values.
	Reset(l Landmark)
}
