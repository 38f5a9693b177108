package grammar

import "strings"

const parentAnnotationOpen = "[parent="

// AugmentLabel returns the label annotated with the label of its parent, such as `NP[parent=S]`.
func AugmentLabel(label, parent string) string {
	return label + parentAnnotationOpen + parent + "]"
}

// StripAugmentation removes a parent annotation from the label. Nested annotations are removed as a
// whole.
func StripAugmentation(label string) string {
	if i := strings.Index(label, parentAnnotationOpen); i > 0 {
		return label[:i]
	}
	return label
}
