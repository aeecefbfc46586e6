// Package ingredient holds the ingredients compiled into alloy and the
// Library that resolves them by name.
//
// Ingredients are registered statically: each built-in implements Module and
// adds itself to a Library. Declarations loaded from YAML or HCL refer to
// ingredients by name and the Library resolves them; nothing is discovered at
// runtime.
//
// Built-ins:
//
//	greeter     proxy greet(who) stores "<salutation>, <who>" and installs greeting()
//	attributes  proxy has(name [, default]) installs name() and set_<name>(v)
//	describe    proxy describe(text); installs summary()
//	constants   installs one operation per init argument pair
//	hooks       proxies before(op, note) and after(op, note) wrap installed operations
package ingredient
