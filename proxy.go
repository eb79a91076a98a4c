package typelens

import "github.com/typelens/typelens/metadata"

// ResolveProxyType resolves the display proxy for t, if any type on its base
// chain declares a proxy attribute. When both the declared proxy and the
// type the attribute was found on are generic, the proxy's type parameters
// are bound to the target's type arguments; a generic arity mismatch between
// the two is treated as an authoring mistake in the attribute and drops the
// proxy (ok is false) rather than failing, since display must stay
// best-effort over malformed metadata.
func (in *Inspector) ResolveProxyType(t *metadata.Type) (*metadata.Type, bool) {
	attr, target, ok := in.FindProxyAttribute(t)
	if !ok || attr.ProxyType == nil {
		return nil, false
	}
	proxy := attr.ProxyType
	if proxy.IsGenericType() && target.IsGenericType() {
		targetArgs := target.TypeArguments()
		if len(proxy.TypeArguments()) != len(targetArgs) {
			return nil, false
		}
		proxy = metadata.Substitute(proxy, proxy.GenericDefinition(), targetArgs)
	}
	return proxy, true
}
