package plugin

import (
	"fmt"
	"strings"

	pkgerrors "github.com/kunkunyu/mailtemplate/pkg/errors"
)

const (
	// Name is the plugin identifier registered with the host.
	Name = "mail-template"

	ParentToolsRoot   = "ToolsRoot"
	RouteMailTemplate = "MailTemplate"
	LoadingComponent  = "VLoading"
	MailTemplatesView = "views/MailTemplates"

	// Unrestricted is the permission that lets every caller see a route.
	Unrestricted = "*"
)

// Permissions lists what a caller must hold to reach a route.
type Permissions []string

// Allows reports whether granted covers every required permission. A literal
// "*" in the requirement list means anyone may access the route; there is no
// partial wildcard matching.
func (p Permissions) Allows(granted []string) bool {
	for _, required := range p {
		if required == Unrestricted {
			return true
		}
	}
	held := make(map[string]struct{}, len(granted))
	for _, g := range granted {
		held[g] = struct{}{}
	}
	for _, required := range p {
		if _, ok := held[required]; !ok {
			return false
		}
	}
	return true
}

// Menu places a route in the console sidebar.
type Menu struct {
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Priority int    `json:"priority"`
}

// Meta is the presentation metadata the host reads from a route record.
type Meta struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Searchable  bool        `json:"searchable"`
	HideFooter  bool        `json:"hideFooter"`
	Permissions Permissions `json:"permissions"`
	Menu        *Menu       `json:"menu,omitempty"`
}

// Component names a lazily loaded view and the placeholder shown while it loads.
type Component struct {
	View    string `json:"view"`
	Loading string `json:"loading"`
	Lazy    bool   `json:"lazy"`
}

// Route is a single child route record.
type Route struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Component Component `json:"component"`
	Meta      Meta      `json:"meta"`
}

// RouteRecord attaches a route under a named parent in the host router.
type RouteRecord struct {
	ParentName string `json:"parentName"`
	Route      Route  `json:"route"`
}

// Definition is what the plugin hands to the host at registration time.
type Definition struct {
	Name            string            `json:"name"`
	Components      map[string]string `json:"components"`
	Routes          []RouteRecord     `json:"routes"`
	ExtensionPoints map[string]string `json:"extensionPoints"`
}

// Default returns the mail template plugin definition.
func Default() Definition {
	return Definition{
		Name:            Name,
		Components:      map[string]string{},
		ExtensionPoints: map[string]string{},
		Routes: []RouteRecord{
			{
				ParentName: ParentToolsRoot,
				Route: Route{
					Path: "/mail-template",
					Name: RouteMailTemplate,
					Component: Component{
						View:    MailTemplatesView,
						Loading: LoadingComponent,
						Lazy:    true,
					},
					Meta: Meta{
						Title:       "邮件模板管理",
						Description: "查看、编辑 邮件模板",
						Searchable:  true,
						HideFooter:  true,
						Permissions: Permissions{Unrestricted},
						Menu: &Menu{
							Name:     "邮件模板管理",
							Icon:     "fluent:mail-template-24-regular",
							Priority: 0,
						},
					},
				},
			},
		},
	}
}

// Validate checks the structural requirements the host enforces on route records.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "plugin name required")
	}
	seen := make(map[string]struct{}, len(d.Routes))
	for i, rec := range d.Routes {
		if err := rec.validate(); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("route %d invalid", i))
		}
		if _, dup := seen[rec.Route.Name]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate route name %q", rec.Route.Name))
		}
		seen[rec.Route.Name] = struct{}{}
	}
	return nil
}

func (r RouteRecord) validate() error {
	switch {
	case strings.TrimSpace(r.ParentName) == "":
		return fmt.Errorf("parent name required")
	case !strings.HasPrefix(r.Route.Path, "/"):
		return fmt.Errorf("path %q must be absolute", r.Route.Path)
	case strings.TrimSpace(r.Route.Name) == "":
		return fmt.Errorf("route name required")
	case strings.TrimSpace(r.Route.Component.View) == "":
		return fmt.Errorf("component view required")
	case r.Route.Component.Lazy && strings.TrimSpace(r.Route.Component.Loading) == "":
		return fmt.Errorf("lazy component needs a loading component")
	case strings.TrimSpace(r.Route.Meta.Title) == "":
		return fmt.Errorf("meta title required")
	case len(r.Route.Meta.Permissions) == 0:
		return fmt.Errorf("permissions required")
	case r.Route.Meta.Menu != nil && strings.TrimSpace(r.Route.Meta.Menu.Name) == "":
		return fmt.Errorf("menu name required")
	}
	return nil
}

// VisibleTo returns a copy of the definition keeping only routes the granted
// permissions allow.
func (d Definition) VisibleTo(granted []string) Definition {
	out := d
	out.Routes = make([]RouteRecord, 0, len(d.Routes))
	for _, rec := range d.Routes {
		if rec.Route.Meta.Permissions.Allows(granted) {
			out.Routes = append(out.Routes, rec)
		}
	}
	return out
}
