// Package render defines the contract between a view node and the template
// engines that turn its accumulated data into bytes, together with the
// content-type registry used to look engines up. The package knows nothing
// about view trees; it only promises that a renderer signals exactly one of
// completion or failure, exactly once, after Render is invoked.
package render
