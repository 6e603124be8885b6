package epub

// DefaultStylesheet keeps CJK body text justified with a two-character
// first-line indent across reading systems.
const DefaultStylesheet = `@namespace epub "http://www.idpf.org/2007/ops";
body {
    font-family: "Noto Serif CJK SC", "Songti SC", SimSun, serif;
    line-height: 1.5;
    text-align: justify;
    padding: 0 1em;
}
h1, h2 {
    text-align: center;
    font-weight: bold;
    margin: 1em 0;
}
p {
    text-indent: 2em;
    -webkit-text-indent: 2em;
    -moz-text-indent: 2em;
    -ms-text-indent: 2em;
    margin: 0.5em 0;
    padding: 0;
}
`
