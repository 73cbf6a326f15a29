package validator

import "regexp"

// Rule is one denylisted construct.
type Rule struct {
	Label    string
	Category string
	re       *regexp.Regexp
}

func rule(label, category, expr string) Rule {
	return Rule{Label: label, Category: category, re: regexp.MustCompile(expr)}
}

// Denylist is a coarse gate only. "fe"+"tch" walks straight past it; the
// rendering host must still run the code without ambient network or disk.
var Denylist = []Rule{
	rule("fetch()", "network access", `\bfetch\s*\(`),
	rule("XMLHttpRequest", "network access", `\bXMLHttpRequest\b`),
	rule("WebSocket", "network access", `\bWebSocket\b`),
	rule("EventSource", "network access", `\bEventSource\b`),

	rule("eval()", "dynamic code execution", `\beval\s*\(`),
	rule("new Function()", "dynamic code execution", `\bnew\s+Function\s*\(`),
	rule("require()", "dynamic code execution", `\brequire\s*\(`),
	rule("import()", "dynamic code execution", `\bimport\s*\(`),

	rule("process.", "host process access", `\bprocess\.`),
	rule("fs.", "filesystem access", `\bfs\.`),
	rule("child_process", "child process access", `\bchild_process\b`),
	rule("__dirname", "host object access", `\b__dirname\b`),
	rule("__filename", "host object access", `\b__filename\b`),
	rule("globalThis.", "host object access", `\bglobalThis\.`),
	rule("window.location", "host object access", `\bwindow\.location\b`),
	rule("document.cookie", "host object access", `\bdocument\.cookie\b`),
	rule("navigator.", "host object access", `\bnavigator\.`),
	rule("localStorage", "storage access", `\blocalStorage\b`),
	rule("sessionStorage", "storage access", `\bsessionStorage\b`),
	rule("indexedDB", "storage access", `\bindexedDB\b`),
	rule("Buffer.", "host object access", `\bBuffer\.`),
	rule("ServiceWorker", "host object access", `\bServiceWorker\b`),
	rule("importScripts", "host object access", `\bimportScripts\b`),

	rule("this.constructor", "sandbox escape", `\bthis\.constructor\b`),
	rule("Object.getPrototypeOf", "sandbox escape", `\bObject\.getPrototypeOf\b`),
	rule("arguments.callee", "sandbox escape", `\barguments\.callee\b`),
}

// CheckSecurity matches code against the denylist. Each matching rule yields
// exactly one diagnostic, however often it occurs.
func CheckSecurity(code string) Report {
	r := Report{Layer: LayerSecurity}
	for _, rl := range Denylist {
		if rl.re.MatchString(code) {
			r.add("forbidden pattern %s (%s)", rl.Label, rl.Category)
		}
	}
	return r
}
