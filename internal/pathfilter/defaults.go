package pathfilter

// defaultExcludePatterns lists paths that never belong in a prompt: secrets and credentials,
// VCS metadata, dependency directories, build output and generated noise.
var defaultExcludePatterns = PatternList{
	// secrets and credentials
	"**/.env",
	"**/.env.*",
	"**/*.pem",
	"**/*.key",
	"**/*.p12",
	"**/*.pfx",
	"**/*.crt",
	"**/*.cer",
	"**/*.jks",
	"**/*.keystore",
	"**/*.kdbx",
	"**/id_rsa",
	"**/id_rsa.pub",
	"**/id_dsa",
	"**/id_ecdsa",
	"**/id_ed25519",
	"**/known_hosts",
	"**/.ssh/**",
	"**/.aws/**",
	"**/.gnupg/**",
	"**/.netrc",
	"**/.npmrc",
	"**/.pypirc",
	"**/.htpasswd",
	"**/credentials.json",
	"**/service-account*.json",
	"**/*.tfstate",
	"**/*.tfstate.*",

	// version control
	"**/.git/**",
	"**/.svn/**",
	"**/.hg/**",

	// dependencies
	"**/node_modules/**",
	"**/bower_components/**",
	"**/vendor/**",
	"**/.venv/**",
	"**/venv/**",
	"**/__pycache__/**",
	"**/.bundle/**",
	"**/Pods/**",

	// build output and caches
	"**/dist/**",
	"**/build/**",
	"**/out/**",
	"**/target/**",
	"**/bin/**",
	"**/obj/**",
	"**/.next/**",
	"**/.nuxt/**",
	"**/.astro/**",
	"**/.turbo/**",
	"**/.cache/**",
	"**/coverage/**",
	"**/*.pyc",
	"**/*.class",
	"**/*.o",
	"**/*.a",
	"**/*.so",
	"**/*.dylib",
	"**/*.dll",
	"**/*.exe",
	"**/*.min.js",
	"**/*.min.css",
	"**/*.map",

	// lock files
	"**/package-lock.json",
	"**/yarn.lock",
	"**/pnpm-lock.yaml",
	"**/bun.lockb",
	"**/Cargo.lock",
	"**/poetry.lock",
	"**/go.sum",

	// editors and operating systems
	"**/.idea/**",
	"**/.vscode/**",
	"**/.DS_Store",
	"**/Thumbs.db",
	"**/*.swp",
	"**/*.log",
}

// defaultIncludePatterns lists recognized source and text files.
var defaultIncludePatterns = PatternList{
	// source
	"**/*.go",
	"**/*.ts",
	"**/*.tsx",
	"**/*.js",
	"**/*.jsx",
	"**/*.mjs",
	"**/*.cjs",
	"**/*.py",
	"**/*.rb",
	"**/*.rs",
	"**/*.java",
	"**/*.kt",
	"**/*.kts",
	"**/*.scala",
	"**/*.swift",
	"**/*.c",
	"**/*.h",
	"**/*.cc",
	"**/*.cpp",
	"**/*.hpp",
	"**/*.cs",
	"**/*.php",
	"**/*.lua",
	"**/*.dart",
	"**/*.ex",
	"**/*.exs",
	"**/*.erl",
	"**/*.hs",
	"**/*.clj",
	"**/*.r",
	"**/*.jl",
	"**/*.zig",
	"**/*.sh",
	"**/*.bash",
	"**/*.zsh",
	"**/*.ps1",
	"**/*.sql",
	"**/*.graphql",
	"**/*.proto",

	// web
	"**/*.html",
	"**/*.css",
	"**/*.scss",
	"**/*.sass",
	"**/*.less",
	"**/*.vue",
	"**/*.svelte",
	"**/*.astro",

	// documents and data
	"**/*.md",
	"**/*.mdx",
	"**/*.txt",
	"**/*.rst",
	"**/*.json",
	"**/*.yaml",
	"**/*.yml",
	"**/*.toml",
	"**/*.ini",
	"**/*.xml",
	"**/*.csv",
	"**/*.tf",
	"**/*.hcl",
	"**/*.gradle",

	// well-known project files
	"**/Dockerfile",
	"**/Containerfile",
	"**/Makefile",
	"**/Jenkinsfile",
	"**/Procfile",
	"**/Gemfile",
	"**/Rakefile",
	"**/Vagrantfile",
	"**/LICENSE",
	"**/README",
	"**/go.mod",
	"**/package.json",
	"**/.gitignore",
	"**/.dockerignore",
	"**/.editorconfig",
}
