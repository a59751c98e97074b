package web

import "html/template"

type pageView struct {
	IssueForm     string
	RedeemForm    string
	NameField     string
	CodeField     string
	IssueVisible  bool
	RedeemVisible bool
	Alerts        []string
}

var page = template.Must(template.New("access").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width,initial-scale=1" />
<title>Access</title>
<style>
body{font-family:system-ui,Arial,sans-serif;margin:2rem;}
.card{max-width:420px;border:1px solid #ddd;border-radius:12px;padding:24px;}
.alert{border:1px solid #888;border-radius:8px;padding:10px 16px;margin-bottom:16px;}
input{display:block;margin:8px 0;padding:8px;width:100%;box-sizing:border-box;}
</style>
</head>
<body>
<div class="card">
  {{range .Alerts}}<div class="alert" role="alert">{{.}}</div>{{end}}
  <form id="{{.IssueForm}}" method="post" action="/forms/{{.IssueForm}}"{{if not .IssueVisible}} style="display:none"{{end}}>
    <label for="{{.NameField}}">Name</label>
    <input id="{{.NameField}}" name="{{.NameField}}" type="text" />
    <button type="submit">Get access code</button>
  </form>
  <form id="{{.RedeemForm}}" method="post" action="/forms/{{.RedeemForm}}"{{if not .RedeemVisible}} style="display:none"{{end}}>
    <label for="{{.CodeField}}">Code</label>
    <input id="{{.CodeField}}" name="{{.CodeField}}" type="text" />
    <button type="submit">Sign in</button>
  </form>
</div>
</body>
</html>`))
