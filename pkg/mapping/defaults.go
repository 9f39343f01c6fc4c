package mapping

// defaultPackageMappings covers the well-known cases where a package's
// import name differs from its distribution name.
var defaultPackageMappings = map[string]string{
	"PIL":      "Pillow",
	"cv2":      "opencv-python",
	"sklearn":  "scikit-learn",
	"yaml":     "PyYAML",
	"dotenv":   "python-dotenv",
	"dateutil": "python-dateutil",
	"OpenSSL":  "pyOpenSSL",
	"serial":   "pyserial",
	"bs4":      "beautifulsoup4",
	"google":   "google-api-python-client",
	"jwt":      "PyJWT",
}

// defaultRuntimeDependencies lists packages that frameworks require at
// execution time without a direct import anywhere in user code.
var defaultRuntimeDependencies = map[string][]string{
	"fastapi": {"python-multipart"},    // form parsing and file uploads
	"uvicorn": {"uvloop", "httptools"}, // optional performance stack
	"celery":  {"redis", "kombu"},      // message broker backends
	"flask":   {"werkzeug", "jinja2"},  // core dependencies
	"django":  {"sqlparse", "asgiref"}, // core dependencies
	"pytest":  {"pluggy", "iniconfig"}, // core dependencies
}

// preferredExtras is the order in which generated configs pick recommended
// extras from registry metadata.
var preferredExtras = []string{"all", "full", "standard", "complete", "asyncio", "security"}

// PreferredExtras filters available extras down to the well-known ones, in
// preference order. Returns nil when none match.
func PreferredExtras(available map[string][]string) []string {
	var picked []string
	for _, name := range preferredExtras {
		if _, ok := available[name]; ok {
			picked = append(picked, name)
		}
	}
	return picked
}
