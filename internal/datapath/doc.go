/*
Package datapath resolves dotted paths such as `user.name` or `orders.0.id`
inside arbitrary nested data: decoded JSON/YAML (`map[string]any`, `[]any`),
typed maps, slices and structs.

Resolution is total. A path that walks through a missing key, an
out-of-range index or a nil intermediate yields "no value" instead of an
error, so explorer previews and binding validation can probe freely.

The package also classifies values (Kind, Badge), applies JavaScript-style
truthiness for conditional previews, and renders bounded preview strings.
*/
package datapath
