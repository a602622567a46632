package yarahub

import (
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// schema constrains the enriched meta section. Fields not named here are
// passed through unchecked.
const schema = `
#TLP: "TLP:WHITE" | "TLP:CLEAR" | "TLP:GREEN" | "TLP:AMBER" | "TLP:RED"

author:                    string & != ""
date:                      =~"[0-9]{4}-[0-9]{2}-[0-9]{2}"
yarahub_author_twitter?:   =~"^@"
yarahub_author_email?:     =~"^[^@ ]+@[^@ ]+$"
yarahub_reference_md5:     =~"^[0-9a-fA-F]{32}$"
yarahub_reference_link?:   string
yarahub_uuid:              =~"^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$"
yarahub_license:           string & != ""
yarahub_rule_matching_tlp: #TLP
yarahub_rule_sharing_tlp:  #TLP
`

// Validate checks m against the YARAhub meta schema.
func Validate(m *Meta) error {
	ctx := cuecontext.New()
	schemaVal := ctx.CompileString(schema)
	if err := schemaVal.Err(); err != nil {
		return fmt.Errorf("invalid yarahub schema: %w", err)
	}

	data, err := json.Marshal(m.Values())
	if err != nil {
		return fmt.Errorf("serialize meta: %w", err)
	}
	dataVal := ctx.CompileBytes(data)
	if err := dataVal.Err(); err != nil {
		return fmt.Errorf("compile meta: %w", err)
	}

	merged := schemaVal.Unify(dataVal)
	if err := merged.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("meta does not satisfy yarahub schema: %w", err)
	}
	return nil
}
