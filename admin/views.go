package admin

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"datagate/engine"
	"datagate/middleware/auth"
)

// The panel views are hand-written templ components: plain Go functions
// returning templ.Component, rendered through the same Render(ctx, w) calls
// the handlers would use with generated templates.

// esc shortens templ's HTML escaping for the components below.
func esc(s string) string {
	return templ.EscapeString(s)
}

const layoutStyle = `
body { font-family: sans-serif; margin: 0; background: #f4f5f7; color: #1f2733; }
header { background: #1f2733; color: #fff; padding: 12px 24px; display: flex; justify-content: space-between; align-items: center; }
header h1 { font-size: 18px; margin: 0; }
header a { color: #fff; text-decoration: none; margin-left: 16px; }
header .session { font-size: 13px; color: #aab4c0; }
main { max-width: 960px; margin: 24px auto; padding: 0 24px; }
h2 { margin-top: 0; }
table { width: 100%; border-collapse: collapse; background: #fff; margin-bottom: 16px; }
th, td { text-align: left; padding: 8px 12px; border-bottom: 1px solid #e3e6ea; font-size: 14px; }
th { background: #eef0f3; }
.card { background: #fff; border: 1px solid #e3e6ea; border-radius: 4px; padding: 16px; margin-bottom: 16px; }
.cards { display: flex; gap: 16px; }
.cards .card { flex: 1; text-align: center; }
.cards .card p { font-size: 24px; margin: 8px 0 0; }
.banner { padding: 10px 14px; border-radius: 4px; margin-bottom: 16px; font-size: 14px; }
.banner.flash { background: #e2f4e5; border: 1px solid #9fd3a8; }
.banner.error { background: #fae3e3; border: 1px solid #e3a1a1; }
.status-up { color: #1d7a2c; }
.status-down { color: #b02a2a; }
form.inline { display: flex; gap: 8px; margin-bottom: 16px; }
form.inline input[type=text] { flex: 1; padding: 8px; border: 1px solid #c7ced6; border-radius: 4px; }
input[type=text], input[type=password], select { padding: 6px 8px; border: 1px solid #c7ced6; border-radius: 4px; }
button { background: #2563eb; color: #fff; padding: 8px 14px; border: none; border-radius: 4px; cursor: pointer; }
button.danger { background: #b02a2a; }
.actions { white-space: nowrap; }
.actions a { margin-right: 12px; }
.actions form { display: inline; }
.empty { color: #6b7280; font-size: 14px; }
.form-group { margin-bottom: 12px; }
.form-group label { display: block; margin-bottom: 4px; font-size: 14px; }
.back { display: inline-block; margin-bottom: 12px; font-size: 14px; }
`

// Layout wraps page content in the shared panel chrome: header, session
// info, and the one-shot flash/error banners.
func Layout(title string, user *auth.AuthUser, flash, errMsg string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s - DataGate Admin</title>\n<style>%s</style>\n</head>\n<body>\n", esc(title), layoutStyle)
		b.WriteString("<header>\n<h1><a href=\"/admin/\">DataGate Admin</a></h1>\n<nav>")
		b.WriteString("<a href=\"/admin/projects\">Projects</a>")
		if user != nil {
			fmt.Fprintf(&b, "<span class=\"session\">Signed in as %s</span><a href=\"/admin/logout\">Sign out</a>", esc(user.Username))
		}
		b.WriteString("</nav>\n</header>\n<main>\n")
		if flash != "" {
			fmt.Fprintf(&b, "<div class=\"banner flash\">%s</div>\n", esc(flash))
		}
		if errMsg != "" {
			fmt.Fprintf(&b, "<div class=\"banner error\">%s</div>\n", esc(errMsg))
		}
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}

		if err := content.Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, "\n</main>\n</body>\n</html>\n")
		return err
	})
}

// LoginPage is the standalone sign-in form. It renders its own document, not
// the panel layout, since nothing else is reachable before login.
func LoginPage(returnURL, errMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Sign in - DataGate Admin</title>\n<style>")
		b.WriteString(layoutStyle)
		b.WriteString(".login { max-width: 360px; margin: 80px auto; }\n</style>\n</head>\n<body>\n")
		b.WriteString("<main class=\"login\">\n<div class=\"card\">\n<h2>Sign in to DataGate</h2>\n")
		if errMsg != "" {
			fmt.Fprintf(&b, "<div class=\"banner error\">%s</div>\n", esc(errMsg))
		}
		b.WriteString("<form method=\"post\">\n")
		fmt.Fprintf(&b, "<input type=\"hidden\" name=\"return\" value=\"%s\">\n", esc(returnURL))
		b.WriteString("<div class=\"form-group\"><label>Username</label><input type=\"text\" name=\"username\" required></div>\n")
		b.WriteString("<div class=\"form-group\"><label>Password</label><input type=\"password\" name=\"password\" required></div>\n")
		b.WriteString("<button type=\"submit\">Sign in</button>\n</form>\n</div>\n</main>\n</body>\n</html>\n")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// Dashboard is the panel landing page: engine reachability and a project
// count, with a shortcut into the project list.
func Dashboard(engineUp bool, projects []engine.Project) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<h2>Dashboard</h2>\n<div class=\"cards\">\n")

		status, class := "up", "status-up"
		if !engineUp {
			status, class = "down", "status-down"
		}
		fmt.Fprintf(&b, "<div class=\"card\"><h3>Data engine</h3><p class=\"%s\">%s</p></div>\n", class, status)
		fmt.Fprintf(&b, "<div class=\"card\"><h3>Projects</h3><p>%d</p></div>\n", len(projects))

		b.WriteString("</div>\n<p><a href=\"/admin/projects\">Manage projects</a></p>\n")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ProjectsPage lists every project with links into its instances and table
// schemas, plus the creation form.
func ProjectsPage(projects []engine.Project) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<h2>Projects</h2>\n")
		b.WriteString("<form class=\"inline\" method=\"post\" action=\"/admin/projects\">\n")
		b.WriteString("<input type=\"text\" name=\"name\" placeholder=\"New project name\" required>\n")
		b.WriteString("<button type=\"submit\">Create project</button>\n</form>\n")

		if len(projects) == 0 {
			b.WriteString("<p class=\"empty\">No projects yet.</p>\n")
		} else {
			b.WriteString("<table>\n<thead><tr><th>ID</th><th>Name</th><th>Created</th><th></th></tr></thead>\n<tbody>\n")
			for _, p := range projects {
				fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td class=\"actions\">", esc(p.ID), esc(p.Name), esc(p.CreatedAt))
				fmt.Fprintf(&b, "<a href=\"%s\">Instances</a>", esc(NewPanelURL("projects", p.ID, "instances").String()))
				fmt.Fprintf(&b, "<a href=\"%s\">Tables</a>", esc(NewPanelURL("projects", p.ID, "tables").String()))
				fmt.Fprintf(&b, "<form method=\"post\" action=\"%s\"><button class=\"danger\" type=\"submit\">Delete</button></form>",
					esc(NewPanelURL("projects", p.ID, "delete").String()))
				b.WriteString("</td></tr>\n")
			}
			b.WriteString("</tbody>\n</table>\n")
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// InstancesPage lists the instances of one project with the creation form.
func InstancesPage(projectID string, instances []engine.Instance) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<a class=\"back\" href=\"/admin/projects\">&larr; Projects</a>\n")
		fmt.Fprintf(&b, "<h2>Instances of project %s</h2>\n", esc(projectID))

		fmt.Fprintf(&b, "<form class=\"inline\" method=\"post\" action=\"%s\">\n", esc(NewPanelURL("projects", projectID, "instances").String()))
		b.WriteString("<input type=\"text\" name=\"name\" placeholder=\"New instance name\" required>\n")
		b.WriteString("<button type=\"submit\">Create instance</button>\n</form>\n")

		if len(instances) == 0 {
			b.WriteString("<p class=\"empty\">No instances yet.</p>\n")
		} else {
			b.WriteString("<table>\n<thead><tr><th>ID</th><th>Name</th><th>Created</th><th></th></tr></thead>\n<tbody>\n")
			for _, in := range instances {
				fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td class=\"actions\">", esc(in.ID), esc(in.Name), esc(in.CreatedAt))
				fmt.Fprintf(&b, "<form method=\"post\" action=\"%s\"><button class=\"danger\" type=\"submit\">Delete</button></form>",
					esc(NewPanelURL("projects", projectID, "instances", in.ID, "delete").String()))
				b.WriteString("</td></tr>\n")
			}
			b.WriteString("</tbody>\n</table>\n")
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// TablesPage lists the table schemas of one project and appends the schema
// editor for creating another.
func TablesPage(projectID string, tables []engine.TableSchema) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<a class=\"back\" href=\"/admin/projects\">&larr; Projects</a>\n")
		fmt.Fprintf(&b, "<h2>Tables of project %s</h2>\n", esc(projectID))

		if len(tables) == 0 {
			b.WriteString("<p class=\"empty\">No tables yet.</p>\n")
		}
		for _, table := range tables {
			b.WriteString("<div class=\"card\">\n")
			fmt.Fprintf(&b, "<h3>%s</h3>\n", esc(table.Name))
			b.WriteString("<table>\n<thead><tr><th>Column</th><th>Type</th><th>Required</th><th>Default</th></tr></thead>\n<tbody>\n")
			for _, col := range table.Columns {
				required := "optional"
				if col.Required {
					required = "required"
				}
				fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
					esc(col.Name), esc(col.Type), required, esc(col.Default))
			}
			b.WriteString("</tbody>\n</table>\n")
			fmt.Fprintf(&b, "<form method=\"post\" action=\"%s\"><button class=\"danger\" type=\"submit\">Delete table</button></form>\n",
				esc(NewPanelURL("projects", projectID, "tables", table.Name, "delete").String()))
			b.WriteString("</div>\n")
		}
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}

		return SchemaForm(projectID).Render(ctx, w)
	})
}

// schemaFormRows is how many blank column rows the table editor offers.
const schemaFormRows = 5

// SchemaForm is the table editor: a table name plus parallel col_* arrays.
// Required is a select rather than a checkbox so every row submits a value
// and the arrays stay index-aligned.
func SchemaForm(projectID string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<div class=\"card\">\n<h3>New table</h3>\n")
		fmt.Fprintf(&b, "<form method=\"post\" action=\"%s\">\n", esc(NewPanelURL("projects", projectID, "tables").String()))
		b.WriteString("<div class=\"form-group\"><label>Table name</label><input type=\"text\" name=\"table_name\" placeholder=\"e.g. Order Items\" required></div>\n")
		b.WriteString("<table>\n<thead><tr><th>Column</th><th>Type</th><th>Required</th><th>Default</th></tr></thead>\n<tbody>\n")
		for i := 0; i < schemaFormRows; i++ {
			b.WriteString("<tr><td><input type=\"text\" name=\"col_name\" placeholder=\"column name\"></td>")
			b.WriteString("<td><select name=\"col_type\">")
			for _, ct := range columnTypes {
				fmt.Fprintf(&b, "<option value=\"%s\">%s</option>", ct, ct)
			}
			b.WriteString("</select></td>")
			b.WriteString("<td><select name=\"col_required\"><option value=\"false\">optional</option><option value=\"true\">required</option></select></td>")
			b.WriteString("<td><input type=\"text\" name=\"col_default\"></td></tr>\n")
		}
		b.WriteString("</tbody>\n</table>\n<button type=\"submit\">Create table</button>\n</form>\n</div>\n")
		_, err := io.WriteString(w, b.String())
		return err
	})
}
