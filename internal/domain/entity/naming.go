package entity

import (
	"fmt"
	"strconv"
)

// CatLabelName is the detector category rendered by the app.
const CatLabelName = "Cat"

// NoConfidence is shown in place of a percentage when an instance has no confidence.
const NoConfidence = "no confidence"

// InstanceName returns the display name of the instance at index (0-based): "Cat-1", "Cat-2", ...
// The same name is the key into HighlightState.
func InstanceName(index int) string {
	return CatLabelName + "-" + strconv.Itoa(index+1)
}

// ConfidenceLabel formats a confidence as a percentage with two decimals.
func ConfidenceLabel(confidence *float64) string {
	if confidence == nil {
		return NoConfidence
	}
	return fmt.Sprintf("%.2f%%", *confidence)
}

// NameAndConfidence returns the display name and confidence label of an instance.
func NameAndConfidence(index int, instance CatInstance) (string, string) {
	return InstanceName(index), ConfidenceLabel(instance.Confidence)
}

// DisplayLabel is the text drawn next to a box: "Cat-1(98.41%)".
func DisplayLabel(index int, instance CatInstance) string {
	name, conf := NameAndConfidence(index, instance)
	return name + "(" + conf + ")"
}
