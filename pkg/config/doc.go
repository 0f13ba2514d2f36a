// Package config loads controller documents and server settings.
//
// Controller documents are JSON or YAML files describing one or more
// multi-form controllers. Form kinds are resolved against a form.Registry:
//
//	controllers:
//	  - name: contact
//	    policy: hybrid
//	    path: /contact
//	    success_urls:
//	      first_comment: /thanks
//	      request: /requests
//	    entries:
//	      - name: first_comment
//	        forms:
//	          - {name: register, kind: register, prefix: qwe}
//	          - {name: comment, kind: comment}
//	      - {name: request, kind: request}
//
// Server settings come from MULTIFORM_* environment variables.
package config
