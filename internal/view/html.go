package view

import (
	"html/template"
	"strings"
)

// accordionTemplate mirrors the reference markup: one collapsible section
// per category with a header (chevron, label, live count) and a checkbox
// row per document.
const accordionTemplate = `<div id="cats">
{{- range .Sections}}
<section class="cat-sec" id="sec-{{.Key}}" aria-expanded="{{.Expanded}}">
  <div class="cat-head">
    <button type="button" class="cat-toggle" aria-controls="list-{{.Key}}" aria-expanded="{{.Expanded}}"><span class="chev">▶</span></button>
    <div class="cat-title">{{.Label}}</div>
    <div class="cat-count" id="count-{{.Key}}">{{.Count}}개</div>
  </div>
  <ul class="doc-list" id="list-{{.Key}}" role="group">
{{- range .Rows}}
    <li class="doc-item{{if .Highlight}} flash{{end}}">
      <input type="checkbox" data-id="{{.ID}}"{{if .Checked}} checked{{end}}>
      <span class="title">{{.Title}}</span>
    </li>
{{- end}}
  </ul>
</section>
{{- end}}
</div>
<div id="selectedInfo">선택된 문서: {{.SelectedCount}}개</div>
`

var accordionTmpl = template.Must(template.New("accordion").Parse(accordionTemplate))

// RenderHTML renders the accordion view-model. The output depends only on
// the view-model, so unchanged inputs produce byte-identical markup.
func RenderHTML(acc Accordion) (string, error) {
	var b strings.Builder
	if err := accordionTmpl.Execute(&b, acc); err != nil {
		return "", err
	}
	return b.String(), nil
}
