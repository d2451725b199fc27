// Package schema declares the shape of bundle documents and validates
// untyped parsed values against it.
//
// Schemas are written in YAML and embedded from the definitions directory.
// A node declares its allowed types and, depending on type, constraints:
//
//	type: object
//	additionalProperties: false
//	required: [id, title]
//	properties:
//	  id:
//	    type: string
//	    identifier: true
//	  title:
//	    type: string
//	    minLength: 1
//	    maxLength: 500
//	    default: Untitled task
//	  tags:
//	    type: array
//	    maxItems: 20
//	    items:
//	      type: string
//	      maxLength: 50
//	  settings:
//	    $ref: settings
//
// # Severity
//
// Problems a sanitizer can repair without guessing (unknown properties,
// overlong strings and arrays) are warnings. Everything else (wrong type,
// missing required field, too short, pattern, enum, date-time format,
// numeric bounds) is an error. Null and absent values are valid for any
// schema; optionality is expressed by leaving a field out of required.
package schema
