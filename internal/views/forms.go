package views

import (
	"slices"
	"time"

	"github.com/dmitrymomot/locallibrary/internal/catalog"
	"github.com/dmitrymomot/locallibrary/pkg/validator"
)

func dateValue(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return catalog.FormatDate(*t)
}

// input writes a labelled <input> with its field errors and help text.
func input(w *writer, errs validator.ValidationErrors, typ, name, label, value, help string) {
	w.raw(`<div class="field"><label`)
	w.attr("for", "id_"+name)
	w.raw(">")
	w.text(label)
	w.raw(":</label><input")
	w.attr("type", typ)
	w.attr("name", name)
	w.attr("id", "id_"+name)
	w.attr("value", value)
	w.raw(">")
	fieldHelp(w, errs, name, help)
	w.raw("</div>")
}

func textarea(w *writer, errs validator.ValidationErrors, name, label, value string) {
	w.raw(`<div class="field"><label`)
	w.attr("for", "id_"+name)
	w.raw(">")
	w.text(label)
	w.raw(":</label><textarea")
	w.attr("name", name)
	w.attr("id", "id_"+name)
	w.raw(` rows="6">`)
	w.text(value)
	w.raw("</textarea>")
	fieldHelp(w, errs, name, "")
	w.raw("</div>")
}

type option struct {
	value string
	label string
}

func selectField(w *writer, errs validator.ValidationErrors, name, label string, opts []option, selected []string, multiple bool) {
	w.raw(`<div class="field"><label`)
	w.attr("for", "id_"+name)
	w.raw(">")
	w.text(label)
	w.raw(":</label><select")
	w.attr("name", name)
	w.attr("id", "id_"+name)
	if multiple {
		w.raw(" multiple")
	} else {
		w.raw(`><option value="">---------</option`)
	}
	w.raw(">")
	for _, o := range opts {
		w.raw("<option")
		w.attr("value", o.value)
		if slices.Contains(selected, o.value) {
			w.raw(" selected")
		}
		w.raw(">")
		w.text(o.label)
		w.raw("</option>")
	}
	w.raw("</select>")
	fieldHelp(w, errs, name, "")
	w.raw("</div>")
}

func fieldHelp(w *writer, errs validator.ValidationErrors, name, help string) {
	for _, msg := range errs.Get(name) {
		w.tag("p", "errorlist", msg)
	}
	if help != "" {
		w.tag("p", "helptext", help)
	}
}

// formErrors lists messages not tied to a field.
func formErrors(w *writer, errs validator.ValidationErrors) {
	for _, msg := range errs.Get("") {
		w.tag("p", "errorlist", msg)
	}
}

func submit(w *writer, label string) {
	w.raw(`<button type="submit">`)
	w.text(label)
	w.raw("</button>")
}
