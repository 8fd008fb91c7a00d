package uctypes

// AuthnType selects how an authn user authenticates.
type AuthnType string

// Supported authn types.
const (
	AuthnTypePassword AuthnType = "password"
	AuthnTypeOIDC     AuthnType = "social"
)

// ColumnIndexType controls how a userstore column is indexed.
type ColumnIndexType string

// Supported column index types.
const (
	ColumnIndexTypeNone    ColumnIndexType = "none"
	ColumnIndexTypeIndexed ColumnIndexType = "indexed"
	ColumnIndexTypeUnique  ColumnIndexType = "unique"
)

// DataLifeCycleState identifies which copy of a value an accessor reads.
type DataLifeCycleState string

// Data life cycle states.
const (
	DataLifeCycleStateLive        DataLifeCycleState = "live"
	DataLifeCycleStateSoftDeleted DataLifeCycleState = "softdeleted"
	DataLifeCycleStatePostDelete  DataLifeCycleState = "postdelete"
	DataLifeCycleStatePreDelete   DataLifeCycleState = "predelete"
)

// DataType is the concrete type of a userstore column.
type DataType string

// Built-in column data types.
const (
	DataTypeAddress         DataType = "address"
	DataTypeBirthdate       DataType = "birthdate"
	DataTypeBoolean         DataType = "boolean"
	DataTypeComposite       DataType = "composite"
	DataTypeDate            DataType = "date"
	DataTypeEmail           DataType = "email"
	DataTypeInteger         DataType = "integer"
	DataTypePhoneNumber     DataType = "phonenumber"
	DataTypeE164PhoneNumber DataType = "e164_phonenumber"
	DataTypeSSN             DataType = "ssn"
	DataTypeString          DataType = "string"
	DataTypeTimestamp       DataType = "timestamp"
	DataTypeUUID            DataType = "uuid"
)

// PolicyType selects how an access policy combines its components.
type PolicyType string

// Composite policy types.
const (
	PolicyTypeCompositeAnd PolicyType = "composite_and"
	PolicyTypeCompositeOr  PolicyType = "composite_or"
)

// Region is a data-residency region for user records.
type Region string

// Available regions.
const (
	RegionAWSUSEast1 Region = "aws-us-east-1"
	RegionAWSUSWest2 Region = "aws-us-west-2"
)

// TransformType selects how a transformer treats its input.
type TransformType string

// Transform types.
const (
	TransformTypePassThrough     TransformType = "passthrough"
	TransformTypeTokenizeByRef   TransformType = "tokenizebyreference"
	TransformTypeTokenizeByValue TransformType = "tokenizebyvalue"
	TransformTypeTransform       TransformType = "transform"
)

// Sentinel values a mutator accepts in place of a concrete column value.
const (
	MutatorColumnDefaultValue = "UCDEF-7f55f479-3822-4976-a8a9-b789d5c6f152"
	MutatorColumnCurrentValue = "UCCUR-7f55f479-3822-4976-a8a9-b789d5c6f152"
)
