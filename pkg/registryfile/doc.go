// Package registryfile loads field registries from declarative YAML or JSON
// files. Each file lists fields in display order; files are read in lexical
// path order and concatenated into a single registry.
//
//	fields:
//	  - key: hosts
//	    label: IP
//	    type: array
//	    flex: 2
//	    validator: ipv4_list
//	  - key: for_biz
//	    label: Business
//	    type: number
//	    lookup:
//	      id_field: bk_biz_id
//	      name_field: display_name
//	      service: business
//
// Lookup services are referenced by name and supplied by the caller with
// WithService, or declared inline as a static record list.
package registryfile
