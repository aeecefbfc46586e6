// Package declare loads template declarations from YAML and HCL files and
// compiles them into variant templates.
//
// A declaration names the ingredients a template applies, the proxy
// operations its compose routine may call, and the compose routine itself as
// an ordered script of steps. Each step either calls a proxy or installs a
// constant operation on the new unit. String values in a step are rendered
// with text/template against the caller's arguments before the step runs.
//
// YAML files hold a top-level templates list:
//
//	templates:
//	  - name: greeter
//	    export: Greeter
//	    ingredients:
//	      - name: greeter
//	        args: {salutation: Hello}
//	    proxies: [greet]
//	    compose:
//	      - call: greet
//	        args: ["{{ .who }}"]
//
// HCL files hold template blocks with the same fields:
//
//	template "greeter" {
//	  export  = "Greeter"
//	  proxies = ["greet"]
//
//	  ingredient "greeter" {
//	    args = { salutation = "Hello" }
//	  }
//
//	  step {
//	    call = "greet"
//	    args = ["{{ .who }}"]
//	  }
//	}
//
// An ingredient named "template:<name>" applies another template, loaded
// earlier or already in the catalog, as an ingredient.
package declare
