package comparator

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"github.com/criteo/openapi-comparator/internal/severity"
)

// Kind classifies the change a rule describes.
type Kind int

const (
	// KindAddition marks something present only in the new document.
	KindAddition Kind = iota
	// KindUpdate marks something present in both documents with a different value.
	KindUpdate
	// KindRemoval marks something present only in the old document.
	KindRemoval
	// KindSpecification marks a problem with a document itself rather than a change.
	KindSpecification
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindAddition:
		return "Addition"
	case KindUpdate:
		return "Update"
	case KindRemoval:
		return "Removal"
	case KindSpecification:
		return "Specification"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Rule describes one kind of difference the comparator can report.
// Several rules may share an ID when they are direction-dependent variants of
// the same difference; their codes always differ.
type Rule struct {
	ID       int
	Code     string
	Template string
	Kind     Kind
	Severity severity.RuleSeverity
}

const docBaseURL = "https://github.com/criteo/openapi-comparator/tree/main/documentation/rules/"

// DocURL returns the documentation page of the rule.
func (r *Rule) DocURL() string {
	return docBaseURL + strconv.Itoa(r.ID) + ".md"
}

var placeholder = regexp.MustCompile(`\{(\d+)\}`)

// Format renders the template, replacing {0}, {1}, ... with args.
// Placeholders without a matching argument are left as written.
func (r *Rule) Format(args ...any) string {
	if len(args) == 0 {
		return r.Template
	}
	return placeholder.ReplaceAllStringFunc(r.Template, func(m string) string {
		i, err := strconv.Atoi(m[1 : len(m)-1])
		if err != nil || i >= len(args) {
			return m
		}
		return fmt.Sprint(args[i])
	})
}

func rule(id int, code string, kind Kind, sev severity.RuleSeverity, template string) *Rule {
	return &Rule{ID: id, Code: code, Template: template, Kind: kind, Severity: sev}
}

const (
	ruleInfo     = severity.RuleInfo
	ruleWarning  = severity.RuleWarning
	ruleBreaking = severity.RuleBreaking
	ruleError    = severity.RuleError
)

// Version rules.
var (
	VersionsReversed = rule(1000, "VersionsReversed", KindUpdate, ruleError,
		"The new version has a lower value than the old: {0} -> {1}")
	NoVersionChange = rule(1001, "NoVersionChange", KindUpdate, ruleInfo,
		"The versions have not changed.")
	NonSemanticVersion = rule(1049, "NonSemanticVersion", KindSpecification, ruleError,
		"A version number does not follow semantic conventions Old {0}, New {1}.")
	MajorVersionChange = rule(1050, "MajorVersionChange", KindAddition, ruleBreaking,
		"A major version change. This signifies breaking changes may be made. Old {0}, New {1}.")
	MinorVersionChange = rule(1051, "MinorVersionChange", KindAddition, ruleWarning,
		"A minor version change. This signifies additive changes or occasionally, non-backwards compatible changes may be made in minor version where impact is believed to be low relative to the benefit provided. Old {0}, New {1}.")
)

// Document structure rules.
var (
	ServerNoLongerSupported = rule(10021, "ServerNoLongerSupported", KindRemoval, ruleBreaking,
		"The new version does not support the server with url '{0}' anymore")
	RemovedPath = rule(1005, "RemovedPath", KindRemoval, ruleBreaking,
		"The new version is missing a path that was found in the old version. Was path '{0}' removed or restructured?")
	RemovedDefinition = rule(1006, "RemovedDefinition", KindRemoval, ruleBreaking,
		"The new version is missing a definition that was found in the old version. Was '{0}' removed or renamed?")
	RemovedClientParameter = rule(1007, "RemovedClientParameter", KindRemoval, ruleBreaking,
		"The new version is missing a client parameter that was found in the old version. Was '{0}' removed or renamed?")
	RemovedOperation = rule(1035, "RemovedOperation", KindRemoval, ruleBreaking,
		"The new version is missing an operation that was found in the old version. Was operationId '{0}' removed or restructured?")
	AddedPath = rule(1038, "AddedPath", KindAddition, ruleInfo,
		"The new version is adding a path that was not found in the old version.")
	AddedOperation = rule(1039, "AddedOperation", KindAddition, ruleInfo,
		"The new version is adding an operation that was not found in the old version.")
	ReferenceRedirection = rule(1017, "ReferenceRedirection", KindUpdate, ruleBreaking,
		"The '$ref' property points to different models in the old and new versions.")
)

// Operation rules.
var (
	ModifiedOperationID = rule(1008, "ModifiedOperationId", KindUpdate, ruleBreaking,
		"The operation id has been changed from '{0}' to '{1}'. This will impact generated code.")
	AddingResponseCode = rule(1011, "AddingResponseCode", KindAddition, ruleBreaking,
		"The new version adds a response code '{0}'.")
	RemovedResponseCode = rule(1012, "RemovedResponseCode", KindRemoval, ruleBreaking,
		"The new version removes the response code '{0}'")
	LongRunningOperationExtensionChanged = rule(1044, "LongRunningOperationExtensionChanged", KindUpdate, ruleBreaking,
		"The new version has a different 'x-ms-long-running-operation' value than the previous one.")
	AddedRequestBody = rule(1046, "AddedRequestBody", KindAddition, ruleBreaking,
		"The new version is adding a requestBody that was not found in the old version.")
	RemovedRequestBody = rule(1047, "RemovedRequestBody", KindRemoval, ruleBreaking,
		"The new version is removing a requestBody that was found in the old version.")
)

// Parameter rules.
var (
	RemovedRequiredParameter = rule(1009, "RemovedRequiredParameter", KindRemoval, ruleBreaking,
		"The required parameter '{0}' was removed in the new version.")
	AddingRequiredParameter = rule(1010, "AddingRequiredParameter", KindAddition, ruleBreaking,
		"The required parameter '{0}' was added in the new version.")
	ParameterInHasChanged = rule(1015, "ParameterInHasChanged", KindUpdate, ruleBreaking,
		"How the parameter is passed has changed -- it used to be '{0}', now it is '{1}'.")
	ConstantStatusHasChanged = rule(1016, "ConstantStatusHasChanged", KindUpdate, ruleBreaking,
		"The 'constant' status changed from the old version to the new.")
	RequiredStatusAdded = rule(1025, "RequiredStatusAdded", KindUpdate, ruleBreaking,
		"The 'required' status changed from the old version('{0}') to the new version('{1}').")
	RequiredStatusRemoved = rule(1025, "RequiredStatusRemoved", KindRemoval, ruleInfo,
		"The 'required' status was removed from the old version('{0}') to the new version('{1}').")
	ArrayCollectionFormatChanged = rule(1028, "ArrayCollectionFormatChanged", KindUpdate, ruleBreaking,
		"The new version has a different array collection format than the previous one.")
	ParameterStyleChanged = rule(10281, "ParameterStyleChanged", KindUpdate, ruleBreaking,
		"Parameter '{0}' has a different style value in the new version.")
	ChangedParameterOrder = rule(1042, "ChangedParameterOrder", KindUpdate, ruleBreaking,
		"The order of parameter '{0}' was changed. ")
	AddingOptionalParameter = rule(1043, "AddingOptionalParameter", KindAddition, ruleBreaking,
		"The optional parameter '{0}' was added in the new version.")
)

// Content and header rules.
var (
	RequestBodyFormatNoLongerSupported = rule(1003, "RequestBodyFormatNoLongerSupported", KindRemoval, ruleBreaking,
		"The new version does not support '{0}' as a request body format.")
	ResponseBodyInOperationFormatNoLongerSupported = rule(10031, "ResponseBodyInOperationFormatNoLongerSupported", KindRemoval, ruleBreaking,
		"The new version of operation does not support '{0}' as a response body format.")
	ResponseBodyFormatNowSupported = rule(1004, "ResponseBodyFormatNowSupported", KindAddition, ruleInfo,
		"The old version did not support '{0}' as a response body format.")
	ResponseBodyInOperationFormatNowSupported = rule(10041, "ResponseBodyInOperationFormatNowSupported", KindAddition, ruleBreaking,
		"The old version of operation did not support '{0}' as a response body format.")
	RequestBodyFormatNowSupported = rule(1018, "RequestBodyFormatNowSupported", KindAddition, ruleInfo,
		"The old version did not support '{0}' as a request body format.")
	AddingHeader = rule(1013, "AddingHeader", KindAddition, ruleInfo,
		"The new version adds a header '{0}'.")
	AddingRequiredHeader = rule(1013, "AddingRequiredHeader", KindAddition, ruleBreaking,
		"The new version adds a required header '{0}'.")
	RemovingHeader = rule(1014, "RemovingHeader", KindRemoval, ruleBreaking,
		"The new version removes a required header '{0}'.")
	RemovingRequestHeader = rule(1014, "RemovingRequestHeader", KindRemoval, ruleInfo,
		"The new version removes a required header '{0}'.")
)

// Schema rules.
var (
	RemovedEnumValue = rule(1019, "RemovedEnumValue", KindRemoval, ruleBreaking,
		"The new version is removing enum value(s) '{0}' from the old version.")
	RemovedEnumResponseValue = rule(1019, "RemovedEnumResponseValue", KindRemoval, ruleWarning,
		"The new version is removing enum value(s) '{0}' from the old version.")
	AddedEnumValue = rule(1020, "AddedEnumValue", KindAddition, ruleBreaking,
		"The new version is adding enum value(s) '{0}' from the old version.")
	AddedEnumRequestValue = rule(1020, "AddedEnumRequestValue", KindAddition, ruleWarning,
		"The new version is adding enum value(s) '{0}' from the old version.")
	AddedAdditionalProperties = rule(1021, "AddedAdditionalProperties", KindAddition, ruleBreaking,
		"The new version adds an 'additionalProperties' element.")
	RemovedAdditionalProperties = rule(1022, "RemovedAdditionalProperties", KindRemoval, ruleBreaking,
		"The new version removes the 'additionalProperties' element.")
	WideningTypeFormatChanged = rule(1023, "WideningTypeFormatChanged", KindUpdate, ruleInfo,
		"The new version has a different format than the previous one.")
	TypeFormatChanged = rule(1023, "TypeFormatChanged", KindUpdate, ruleBreaking,
		"The new version has a different format than the previous one.")
	ConstraintIsStronger = rule(1024, "ConstraintIsStronger", KindUpdate, ruleBreaking,
		"The new version has a more constraining '{0}' value than the previous one.")
	ResponseConstraintIsStronger = rule(1024, "ResponseConstraintIsStronger", KindUpdate, ruleInfo,
		"The new version has a more constraining '{0}' value than the previous one for a response schema.")
	EnumConstraintIsStronger = rule(1024, "EnumConstraintIsStronger", KindUpdate, ruleInfo,
		"The new version has a more constraining '{0}' value than the previous one.")
	TypeChanged = rule(1026, "TypeChanged", KindUpdate, ruleBreaking,
		"The new version has a different type '{0}' than the previous one '{1}'.")
	DefaultValueChanged = rule(1027, "DefaultValueChanged", KindUpdate, ruleBreaking,
		"The new version has a different default value than the previous one.")
	ReadonlyPropertyChanged = rule(1029, "ReadonlyPropertyChanged", KindUpdate, ruleBreaking,
		"The read only property has changed from '{0}' to '{1}'.")
	DifferentDiscriminator = rule(1030, "DifferentDiscriminator", KindUpdate, ruleBreaking,
		"The new version has a different discriminator than the previous one.")
	DifferentExtends = rule(1031, "DifferentExtends", KindUpdate, ruleBreaking,
		"The new version has a different 'extends' property than the previous one.")
	DifferentAllOf = rule(1032, "DifferentAllOf", KindUpdate, ruleBreaking,
		"The new version has a different 'allOf' property than the previous one.")
	DifferentOneOf = rule(10321, "DifferentOneOf", KindUpdate, ruleBreaking,
		"The new version has a different 'oneOf' property than the previous one.")
	RemovedProperty = rule(1033, "RemovedProperty", KindRemoval, ruleBreaking,
		"The new version is missing a property found in the old version. Was '{0}' renamed or removed?")
	AddedRequiredProperty = rule(1034, "AddedRequiredProperty", KindAddition, ruleBreaking,
		"The new version has new required property '{0}' that was not found in the old version.")
	AddedRequiredResponseProperty = rule(1034, "AddedRequiredResponseProperty", KindAddition, ruleWarning,
		"The new version has new required response property '{0}' that was not found in the old version.")
	ConstraintChanged = rule(1036, "ConstraintChanged", KindUpdate, ruleBreaking,
		"The new version has a different '{0}' value than the previous one.")
	EnumConstraintChanged = rule(1036, "EnumConstraintChanged", KindUpdate, ruleInfo,
		"The new version has a different '{0}' value than the previous one.")
	MultipleOfConstraintChanged = rule(1036, "MultipleOfConstraintChanged", KindUpdate, ruleBreaking,
		"The new version has a different '{0}' value than the previous one.")
	UniqueItemsConstraintChanged = rule(1036, "UniqueItemsConstraintChanged", KindUpdate, ruleBreaking,
		"The new version has a different '{0}' value than the previous one.")
	PatternConstraintChanged = rule(1036, "PatternConstraintChanged", KindUpdate, ruleBreaking,
		"The new version has a different '{0}' value than the previous one.")
	ConstraintIsWeaker = rule(1037, "ConstraintIsWeaker", KindUpdate, ruleBreaking,
		"The new version has a less constraining '{0}' value than the previous one.")
	RequestConstraintIsWeaker = rule(1037, "RequestConstraintIsWeaker", KindUpdate, ruleInfo,
		"The new version has a less constraining '{0}' value than the previous one in a request schema.")
	EnumConstraintIsWeaker = rule(1037, "EnumConstraintIsWeaker", KindUpdate, ruleInfo,
		"The new version has a less constraining '{0}' value than the previous one.")
	AddedReadOnlyPropertyInResponse = rule(1040, "AddedReadOnlyPropertyInResponse", KindAddition, ruleInfo,
		"The new version has a new read-only property '{0}' in response that was not found in the old version.")
	AddedPropertyInResponse = rule(1041, "AddedPropertyInResponse", KindAddition, ruleWarning,
		"The new version has a new property '{0}' in response that was not found in the old version.")
	AddedBreakingPropertyInResponse = rule(1041, "AddedBreakingPropertyInResponse", KindAddition, ruleBreaking,
		"The new version has a new property '{0}' in response that was not found in the old version and additional properties are specifically forbidden.")
	AddedOptionalProperty = rule(1045, "AddedOptionalProperty", KindAddition, ruleWarning,
		"The new version has a new optional property '{0}' that was not found in the old version.")
	AddedSchema = rule(1048, "AddedSchema", KindAddition, ruleError,
		"The new version is adding a new schema that was not found in the old version.")
	NullablePropertyChanged = rule(2000, "NullablePropertyChanged", KindUpdate, ruleBreaking,
		"The nullable property has changed from '{0}' to '{1}'.")
)

// OpenAPIError reports a document diagnostic. Its message is the diagnostic
// itself.
var OpenAPIError = rule(9000, "OpenApiError", KindSpecification, ruleError, "{0}")

var catalog = []*Rule{
	VersionsReversed, NoVersionChange, NonSemanticVersion, MajorVersionChange, MinorVersionChange,
	ServerNoLongerSupported, RemovedPath, RemovedDefinition, RemovedClientParameter, RemovedOperation,
	AddedPath, AddedOperation, ReferenceRedirection,
	ModifiedOperationID, AddingResponseCode, RemovedResponseCode, LongRunningOperationExtensionChanged,
	AddedRequestBody, RemovedRequestBody,
	RemovedRequiredParameter, AddingRequiredParameter, ParameterInHasChanged, ConstantStatusHasChanged,
	RequiredStatusAdded, RequiredStatusRemoved, ArrayCollectionFormatChanged, ParameterStyleChanged,
	ChangedParameterOrder, AddingOptionalParameter,
	RequestBodyFormatNoLongerSupported, ResponseBodyInOperationFormatNoLongerSupported,
	ResponseBodyFormatNowSupported, ResponseBodyInOperationFormatNowSupported, RequestBodyFormatNowSupported,
	AddingHeader, AddingRequiredHeader, RemovingHeader, RemovingRequestHeader,
	RemovedEnumValue, RemovedEnumResponseValue, AddedEnumValue, AddedEnumRequestValue,
	AddedAdditionalProperties, RemovedAdditionalProperties, WideningTypeFormatChanged, TypeFormatChanged,
	ConstraintIsStronger, ResponseConstraintIsStronger, EnumConstraintIsStronger, TypeChanged,
	DefaultValueChanged, ReadonlyPropertyChanged, DifferentDiscriminator, DifferentExtends,
	DifferentAllOf, DifferentOneOf, RemovedProperty, AddedRequiredProperty, AddedRequiredResponseProperty,
	ConstraintChanged, EnumConstraintChanged, MultipleOfConstraintChanged, UniqueItemsConstraintChanged,
	PatternConstraintChanged, ConstraintIsWeaker, RequestConstraintIsWeaker, EnumConstraintIsWeaker,
	AddedReadOnlyPropertyInResponse, AddedPropertyInResponse, AddedBreakingPropertyInResponse,
	AddedOptionalProperty, AddedSchema, NullablePropertyChanged, OpenAPIError,
}

// Rules returns a copy of the catalog ordered by ID, then by code.
func Rules() []Rule {
	out := make([]Rule, 0, len(catalog))
	for _, r := range catalog {
		out = append(out, *r)
	}
	slices.SortStableFunc(out, func(a, b Rule) int {
		if a.ID != b.ID {
			return a.ID - b.ID
		}
		if a.Code < b.Code {
			return -1
		}
		if a.Code > b.Code {
			return 1
		}
		return 0
	})
	return out
}

// RuleByCode looks a rule up by its code.
func RuleByCode(code string) (Rule, bool) {
	for _, r := range catalog {
		if r.Code == code {
			return *r, true
		}
	}
	return Rule{}, false
}
