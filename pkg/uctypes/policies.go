package uctypes

import "github.com/google/uuid"

// References to the access policies, transformers, and validators every
// tenant is provisioned with. The IDs are fixed across tenants.
var (
	AccessPolicyOpen       = ByID(uuid.MustParse("3f380e42-0b21-4570-a312-91e1b80386fa"))
	TransformerUUID        = ByID(uuid.MustParse("e3743f5b-521e-4305-b232-ee82549e1477"))
	TransformerEmail       = ByID(uuid.MustParse("0cedf7a4-86ab-450a-9426-478ad0a60faa"))
	TransformerFullName    = ByID(uuid.MustParse("b9bf352f-b1ee-4fb2-a2eb-d0c346c6404b"))
	TransformerSSN         = ByID(uuid.MustParse("3f65ee22-2241-4694-bbe3-72cefbe59ff2"))
	TransformerCreditCard  = ByID(uuid.MustParse("618a4ae7-9979-4ee8-bac5-db87335fe4d9"))
	TransformerPassThrough = ByID(uuid.MustParse("c0b5b2a1-0b1f-4b9f-8b1a-1b1f4b9f8b1a"))
	ValidatorOpen          = ByID(uuid.MustParse("c0b5b2a1-0b1f-4b9f-8b1a-1b1f4b9f8b1a"))
)

// Name references for the built-in column data types.
var (
	ColumnDataTypeAddress         = ByName(string(DataTypeAddress))
	ColumnDataTypeBirthdate       = ByName(string(DataTypeBirthdate))
	ColumnDataTypeBoolean         = ByName(string(DataTypeBoolean))
	ColumnDataTypeDate            = ByName(string(DataTypeDate))
	ColumnDataTypeE164PhoneNumber = ByName(string(DataTypeE164PhoneNumber))
	ColumnDataTypeEmail           = ByName(string(DataTypeEmail))
	ColumnDataTypeInteger         = ByName(string(DataTypeInteger))
	ColumnDataTypePhoneNumber     = ByName(string(DataTypePhoneNumber))
	ColumnDataTypeSSN             = ByName(string(DataTypeSSN))
	ColumnDataTypeString          = ByName(string(DataTypeString))
	ColumnDataTypeTimestamp       = ByName(string(DataTypeTimestamp))
	ColumnDataTypeUUID            = ByName(string(DataTypeUUID))
)
