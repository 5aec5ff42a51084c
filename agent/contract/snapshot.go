package contract

// FormSnapshot renders a mutation's argument map as the UI-facing form
// payload: exactly the six field keys, each holding the supplied value or
// the unset marker.
func FormSnapshot(args map[string]any) map[string]string {
	snap := make(map[string]string, len(FieldArgNames))
	for _, name := range FieldArgNames {
		snap[name] = FromArg(args[name]).StoreValue()
	}
	return snap
}
