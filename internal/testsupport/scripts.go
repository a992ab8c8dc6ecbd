package testsupport

// FakeFlac prints a fixed PCM stand-in when asked to decode to stdout. A
// source file containing "CORRUPT" makes it fail.
const FakeFlac = `for last; do :; done
if grep -q CORRUPT "$last" 2>/dev/null; then
  echo "decode error" >&2
  exit 1
fi
printf 'PCMDATA'
`

// FakeLame copies stdin into the last argument.
const FakeLame = `for last; do :; done
cat > "$last"
`

// FakeFFmpeg handles the two invocations blacksys makes: cover extraction
// ("-an -vcodec copy <out>") writes JPEG bytes unless the input contains
// "NOCOVER"; cover embedding ("-map 1:v ... <out>") copies the first input to
// the output followed by an APIC marker.
const FakeFFmpeg = `in1=""; in2=""; out=""
while [ $# -gt 0 ]; do
  case "$1" in
    -i) if [ -z "$in1" ]; then in1="$2"; else in2="$2"; fi; shift 2 ;;
    -y|-an) shift ;;
    -loglevel|-vcodec|-c:a|-c:v|-map|-metadata:s:v|-id3v2_version) shift 2 ;;
    *) out="$1"; shift ;;
  esac
done
if [ -n "$in2" ]; then
  cat "$in1" > "$out"
  printf 'APIC' >> "$out"
  exit 0
fi
if grep -q NOCOVER "$in1" 2>/dev/null; then
  exit 1
fi
printf '\377\330\377\340FAKEJPEG' > "$out"
`

// FakeMktorrent writes the announce list and source folder into the -o file.
const FakeMktorrent = `out=""; announce=""; folder=""
while [ $# -gt 0 ]; do
  case "$1" in
    -o) out="$2"; shift 2 ;;
    -a) announce="$2"; shift 2 ;;
    -l|-s) shift 2 ;;
    -p) shift ;;
    *) folder="$1"; shift ;;
  esac
done
printf 'announce=%s\nfolder=%s\n' "$announce" "$folder" > "$out"
`
