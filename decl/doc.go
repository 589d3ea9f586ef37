// Package decl parses data declaration source.
//
// The source language is the declaration subset of the controller's
// structured text: user-defined types and data blocks.
//
//	TYPE "Motor"
//	STRUCT
//	  running : BOOL := TRUE;
//	  speed   : INT := 1500;
//	  temps   : ARRAY [1..4] OF REAL := [20.5, 21.0];
//	  name    : STRING[8];
//	  sub     : STRUCT a : BYTE; b : WORD; END_STRUCT;
//	END_STRUCT;
//	END_TYPE
//
//	DATA_BLOCK "DB1"
//	STRUCT
//	  m     : "Motor";
//	  flags : ARRAY [0..9] OF BOOL;
//	END_STRUCT;
//	END_DATA_BLOCK
//
//	DATA_BLOCK "DB2" "Motor" END_DATA_BLOCK
//
// Keywords and primitive type names are case-insensitive. Quoted names
// refer to user-defined types. Comments are // to end of line or (* ... *).
//
// Initial values are literals: TRUE and FALSE, decimal integers, based
// integers (16#FF, 8#17, 2#1010), reals (1.5, 2.0e3), quoted strings
// ('abc', with $' $$ $L $N $R $T escapes) and bracketed lists for arrays.
// Parse converts them to bool, int64, float64, string and []any.
package decl
